package assembly

import (
	"context"
	"os"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"codedom/internal/diag"
	"codedom/internal/reflection"
	"codedom/internal/trace"
)

// Loaded is the outcome of loading one bundle. Assembly is nil when the
// bundle could not be read or decoded; the reason is in Bag.
type Loaded struct {
	Path      string
	Digest    Digest
	Assembly  *reflection.AssemblyDescriptor
	FromCache bool
	Bag       *diag.Bag
}

// LoadOptions configure LoadAll.
type LoadOptions struct {
	// Jobs limits concurrent reads. Zero means GOMAXPROCS.
	Jobs int
	// Cache, when set, serves decoded TOML bundles by content digest.
	Cache *Cache
	// MaxDiagnostics bounds each per-bundle bag.
	MaxDiagnostics int
}

// LoadAll reads every bundle in paths concurrently. Results keep the order
// of paths. Unreadable or malformed bundles produce diagnostics, not errors;
// the returned error is set only when ctx is cancelled.
func LoadAll(ctx context.Context, paths []string, opts LoadOptions) ([]Loaded, error) {
	ctx, span := trace.Start(ctx, trace.ScopePhase, "load-bundles")
	defer span.Attr("bundles", strconv.Itoa(len(paths))).End("")

	results := make([]Loaded, len(paths))
	if len(paths) == 0 {
		return results, nil
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	maxDiag := opts.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = 64
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// index i is owned by this goroutine
			results[i] = loadOne(gctx, path, opts.Cache, maxDiag)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func loadOne(ctx context.Context, path string, cache *Cache, maxDiag int) Loaded {
	_, span := trace.Start(ctx, trace.ScopeTable, "bundle:"+path)
	out := Loaded{Path: path, Bag: diag.NewBag(maxDiag)}
	defer func() {
		detail := "ok"
		switch {
		case out.Assembly == nil:
			detail = "failed"
		case out.FromCache:
			detail = "cached"
		}
		span.End(detail)
	}()
	loc := diag.Location{File: path}
	reporter := diag.BagReporter{Bag: out.Bag}

	data, err := os.ReadFile(path)
	if err != nil {
		diag.ReportError(reporter, diag.BundleReadFailed, loc, "failed to read bundle: "+err.Error()).Emit()
		return out
	}
	out.Digest = DigestOf(data)
	format := FormatOf(path)

	// Packed bundles decode as fast as cache entries; only TOML goes through the cache.
	if format == FormatTOML && cache != nil {
		asm, ok, err := cache.Get(out.Digest)
		switch {
		case err != nil:
			diag.ReportWarning(reporter, diag.BundleDecodeFailed, loc, "ignoring unreadable cache entry: "+err.Error()).Emit()
		case ok:
			out.Assembly = asm
			out.FromCache = true
			return out
		}
	}

	asm, err := Decode(data, format)
	if err != nil {
		diag.ReportError(reporter, diag.BundleDecodeFailed, loc, err.Error()).Emit()
		return out
	}
	out.Assembly = asm
	if format == FormatTOML && cache != nil {
		if err := cache.Put(out.Digest, path, asm); err != nil {
			diag.ReportWarning(reporter, diag.BundleReadFailed, loc, "failed to update cache: "+err.Error()).Emit()
		}
	}
	return out
}

// Assemblies returns the successfully loaded descriptors in order.
func Assemblies(loaded []Loaded) []*reflection.AssemblyDescriptor {
	out := make([]*reflection.AssemblyDescriptor, 0, len(loaded))
	for _, l := range loaded {
		if l.Assembly != nil {
			out = append(out, l.Assembly)
		}
	}
	return out
}

// Merge collects every per-bundle bag into one.
func Merge(loaded []Loaded, into *diag.Bag) {
	if into == nil {
		return
	}
	for _, l := range loaded {
		if l.Bag != nil {
			into.Merge(l.Bag)
		}
	}
}

package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file FindManifest looks for.
const ManifestName = "codedom.toml"

// Manifest is a decoded codedom.toml together with its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
	// Unknown lists keys present in the file but not understood.
	Unknown []string
}

// Config mirrors the manifest layout.
type Config struct {
	Project    ProjectConfig `toml:"project"`
	Assemblies []string      `toml:"assemblies"`
	Sources    []string      `toml:"sources"`
	Watch      WatchConfig   `toml:"watch"`
}

type ProjectConfig struct {
	Name     string `toml:"name"`
	Language string `toml:"language"`
}

type WatchConfig struct {
	DebounceMS int      `toml:"debounce_ms"`
	Exclude    []string `toml:"exclude"`
}

// FindManifest walks up from startDir looking for codedom.toml.
func FindManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadManifest decodes and validates the manifest at path. A directory is
// searched upwards for codedom.toml.
func LoadManifest(path string) (*Manifest, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		found, ok, err := FindManifest(path)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("no %s found in %s or its parents", ManifestName, path)
		}
		path = found
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	meta, err := toml.DecodeFile(abs, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", abs, err)
	}
	if !meta.IsDefined("project") {
		return nil, fmt.Errorf("%s: missing [project]", abs)
	}
	if !meta.IsDefined("project", "name") || strings.TrimSpace(cfg.Project.Name) == "" {
		return nil, fmt.Errorf("%s: missing [project].name", abs)
	}
	if cfg.Watch.DebounceMS < 0 {
		return nil, fmt.Errorf("%s: [watch].debounce_ms must not be negative", abs)
	}

	m := &Manifest{Path: abs, Root: filepath.Dir(abs), Config: cfg}
	for _, key := range meta.Undecoded() {
		m.Unknown = append(m.Unknown, key.String())
	}
	return m, nil
}

// Resolve makes a manifest-relative path absolute.
func (m *Manifest) Resolve(rel string) string {
	rel = filepath.FromSlash(strings.TrimSpace(rel))
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(m.Root, rel)
}

// AssemblyPaths returns the absolute bundle paths in manifest order.
func (m *Manifest) AssemblyPaths() []string {
	out := make([]string, 0, len(m.Config.Assemblies))
	for _, a := range m.Config.Assemblies {
		out = append(out, m.Resolve(a))
	}
	return out
}

// SourcePaths returns the absolute source unit paths in manifest order.
func (m *Manifest) SourcePaths() []string {
	out := make([]string, 0, len(m.Config.Sources))
	for _, s := range m.Config.Sources {
		out = append(out, m.Resolve(s))
	}
	return out
}

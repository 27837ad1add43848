package workspace_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"codedom/internal/assembly"
	"codedom/internal/ast"
	"codedom/internal/diag"
	"codedom/internal/reflection"
	"codedom/internal/resolve"
	"codedom/internal/symbols"
	"codedom/internal/testkit"
	"codedom/internal/types"
	"codedom/internal/workspace"
)

const widgetUnit = `file = "src/Widget.cs"
usings = ["System", "System.Collections.Generic"]

[[types]]
name = "Acme.Base"
modifiers = "public abstract"
region = [1, 1, 10, 2]

  [[types.members]]
  kind = "field"
  name = "guarded"
  modifiers = "protected"
  type = "int"
  region = [3, 5]

[[types]]
name = "Acme.Widget"
modifiers = "public"
bases = ["Base"]
region = [12, 1, 40, 2]

  [[types.members]]
  kind = "method"
  name = "Run"
  modifiers = "public"
  type = "List<string>"
  region = [14, 5, 20, 6]
  params = [{ name = "count", type = "int" }]
  locals = [{ name = "names", type = "List<string>", region = [15, 9] }]

  [[types.members]]
  kind = "property"
  name = "Items"
  modifiers = "public"
  type = "string[]"

  [[types.nested]]
  name = "Part"
  modifiers = "public"
  region = [30, 5, 35, 6]
`

const helperUnit = `file = "src/Helper.cs"

[[types]]
name = "Acme.Helper"
type_params = ["T"]

  [[types.members]]
  kind = "method"
  name = "Make"
  type = "Widget.Part"
  type_params = ["U"]
  params = [{ name = "seed", type = "U" }, { name = "value", type = "T" }]

  [[types.members]]
  kind = "field"
  name = "broken"
  type = "Missing"
`

const manifestText = `assemblies = ["lib/corlib.toml"]
sources = ["units/widget.toml", "units/helper.toml"]

[project]
name = "Demo"
language = "csharp"

[watch]
debounce_ms = 25
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func writeBundle(t *testing.T, path string, asm *reflection.AssemblyDescriptor) {
	t.Helper()
	var buf bytes.Buffer
	if err := assembly.EncodeTOML(&buf, asm); err != nil {
		t.Fatal(err)
	}
	writeFile(t, path, buf.String())
}

// newDemo lays out a workspace with the core library bundle and two units.
func newDemo(t *testing.T, manifest string) string {
	t.Helper()
	root := t.TempDir()
	writeBundle(t, filepath.Join(root, "lib", "corlib.toml"), testkit.Corlib())
	writeFile(t, filepath.Join(root, "units", "widget.toml"), widgetUnit)
	writeFile(t, filepath.Join(root, "units", "helper.toml"), helperUnit)
	writeFile(t, filepath.Join(root, workspace.ManifestName), manifest)
	return root
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestLoadBuildsProjectOverBundles(t *testing.T) {
	root := newDemo(t, manifestText)
	ws, err := workspace.Load(context.Background(), root, workspace.Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	snap := ws.Snapshot()
	if snap.Version != 1 || snap.Project.Name() != "Demo" || len(snap.Assemblies) != 1 {
		t.Fatalf("unexpected snapshot: version %d, project %s, %d assemblies", snap.Version, snap.Project.Name(), len(snap.Assemblies))
	}
	if snap.Diagnostics.HasErrors() {
		t.Fatalf("unexpected errors: %v", snap.Diagnostics.Items())
	}
	if got := codes(snap.Diagnostics); !slices.Equal(got, []diag.Code{diag.WorkspaceUnresolvedType}) {
		t.Fatalf("diagnostics = %v, want only the unresolved Missing", snap.Diagnostics.Items())
	}
	if err := testkit.CheckTableInvariants(snap.Project); err != nil {
		t.Fatal(err)
	}

	widget, ok := snap.Project.GetType("Acme.Widget")
	if !ok {
		t.Fatal("Acme.Widget missing")
	}
	base, ok := types.Resolve(widget.Bases[0], snap.Project)
	if !ok || base.FullName != "Acme.Base" {
		t.Fatalf("Widget base = %v", widget.Bases[0])
	}
	run := widget.MembersNamed("Run", false)[0]
	if got := types.Label(run.Type); got != "System.Collections.Generic.List<string>" {
		t.Fatalf("Run type = %s", got)
	}
	if run.Modifiers.Visibility() != types.ModPublic || run.ParamCount() != 1 {
		t.Fatalf("Run = %s", types.MemberLabel(run))
	}
	items := widget.MembersNamed("Items", false)[0]
	if arr, ok := items.Type.(*types.Array); !ok || arr.Rank != 1 {
		t.Fatalf("Items type = %s", types.Label(items.Type))
	}
	if part, ok := snap.Project.GetType("Acme.Widget.Part"); !ok || part.Outer() != widget {
		t.Fatalf("nested Part not registered under Widget")
	}

	helper, _ := snap.Project.GetType("Acme.Helper")
	mk := helper.MembersNamed("Make", false)[0]
	if got, ok := types.Resolve(mk.Type, snap.Project); !ok || got.FullName != "Acme.Widget.Part" {
		t.Fatalf("Make returns %s", types.Label(mk.Type))
	}
	seed, ok := mk.Signature.Params[0].Type.(*types.Param)
	if !ok {
		t.Fatalf("seed should be a type parameter")
	}
	if tp, bound := seed.TypeParam(); !bound || tp.OwnerMethod() != mk {
		t.Fatalf("seed should be bound to Make's U")
	}
	value := mk.Signature.Params[1].Type.(*types.Param)
	if tp, _ := value.TypeParam(); tp.OwnerType() != helper {
		t.Fatalf("value should be bound to Helper's T")
	}
	if helper.Modifiers.Visibility() != types.ModInternal || mk.Modifiers.Visibility() != types.ModPrivate {
		t.Fatalf("C# defaults not applied: %s / %s", helper.Modifiers, mk.Modifiers)
	}
}

func TestSnapshotContextResolvesLocalsAndDefinitions(t *testing.T) {
	root := newDemo(t, manifestText)
	ws, err := workspace.Load(context.Background(), filepath.Join(root, workspace.ManifestName), workspace.Options{})
	if err != nil {
		t.Fatal(err)
	}
	snap := ws.Snapshot()
	c, err := snap.Context("Acme.Widget", "Run")
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Locals) != 1 || !slices.Contains(c.Usings, "System.Collections.Generic") {
		t.Fatalf("context = %+v", c)
	}

	r := snap.Resolver(nil)
	resolveText := func(text string) resolve.Result {
		t.Helper()
		expr, err := ast.ParseExpr(text)
		if err != nil {
			t.Fatal(err)
		}
		res, ok := r.Resolve(context.Background(), expr, c)
		if !ok {
			t.Fatalf("%q did not resolve", text)
		}
		return res
	}

	count := resolveText("names.Count")
	if mr, ok := count.(*resolve.MemberResult); !ok || mr.Member.Name != "Count" {
		t.Fatalf("names.Count = %v", count)
	}
	if lr, ok := resolveText("count").(*resolve.LocalResult); !ok || !lr.IsParameter {
		t.Fatalf("count should be a parameter")
	}
	names := entryNames(resolve.DefaultCompletion(resolveText("names"), snap.Project))
	if !slices.Contains(names, "Add") || slices.Contains(names, "EnsureCapacity") {
		t.Fatalf("completion on names = %v", names)
	}
	if !slices.Contains(entryNames(resolve.DefaultCompletion(resolveText("this"), snap.Project)), "guarded") {
		t.Fatalf("protected base field should complete on this")
	}

	pos, ok := resolve.DefinitionPosition(context.Background(), resolveText("Widget"))
	want := resolve.Position{File: filepath.Join(root, "src", "Widget.cs"), Line: 12, Column: 1}
	if !ok || pos != want {
		t.Fatalf("definition = %v %v, want %v", pos, ok, want)
	}
	if _, ok := resolve.DefinitionPosition(context.Background(), resolveText("List")); ok {
		t.Fatalf("reflected List has no source position")
	}

	if _, err := snap.Context("Acme.Nope", ""); err == nil {
		t.Fatalf("expected error for unknown class")
	}
	if _, err := snap.Context("Acme.Widget", "Nope"); err == nil {
		t.Fatalf("expected error for unknown member")
	}
}

func entryNames(entries []symbols.Entry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.Name())
	}
	return out
}

func TestManifestValidation(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, workspace.ManifestName)

	writeFile(t, path, "[project]\nlanguage = \"csharp\"\n")
	if _, err := workspace.LoadManifest(path); err == nil || !strings.Contains(err.Error(), "[project].name") {
		t.Fatalf("err = %v, want missing name", err)
	}
	writeFile(t, path, "sources = []\n")
	if _, err := workspace.LoadManifest(path); err == nil || !strings.Contains(err.Error(), "missing [project]") {
		t.Fatalf("err = %v, want missing project", err)
	}
	writeFile(t, path, "[project\n")
	if _, err := workspace.LoadManifest(path); err == nil {
		t.Fatalf("expected TOML error")
	}

	writeFile(t, path, "colour = \"red\"\n[project]\nname = \"X\"\nlanguage = \"cobol\"\n")
	ws, err := workspace.Load(context.Background(), root, workspace.Options{})
	if err != nil {
		t.Fatal(err)
	}
	snap := ws.Snapshot()
	got := codes(snap.Diagnostics)
	if !slices.Contains(got, diag.WorkspaceManifest) || !slices.Contains(got, diag.WorkspaceUnknownLanguage) {
		t.Fatalf("diagnostics = %v", snap.Diagnostics.Items())
	}
	if snap.Language != types.CSharp {
		t.Fatalf("unknown language should fall back to csharp")
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := newDemo(t, manifestText)
	deep := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}
	path, ok, err := workspace.FindManifest(deep)
	if err != nil || !ok || path != filepath.Join(root, workspace.ManifestName) {
		t.Fatalf("FindManifest = %q %v %v", path, ok, err)
	}
}

func TestMissingInputsAreReported(t *testing.T) {
	root := newDemo(t, `assemblies = ["lib/corlib.toml", "lib/gone.mp"]
sources = ["units/widget.toml", "units/gone.toml"]

[project]
name = "Demo"
`)
	ws, err := workspace.Load(context.Background(), root, workspace.Options{})
	if err != nil {
		t.Fatal(err)
	}
	got := codes(ws.Snapshot().Diagnostics)
	if !slices.Contains(got, diag.BundleReadFailed) || !slices.Contains(got, diag.WorkspaceMissingFile) {
		t.Fatalf("diagnostics = %v", ws.Snapshot().Diagnostics.Items())
	}
	if _, ok := ws.Snapshot().Project.GetType("Acme.Widget"); !ok {
		t.Fatalf("readable inputs should still load")
	}
}

func TestDuplicatesAndCollisionsAreReported(t *testing.T) {
	root := newDemo(t, `assemblies = ["lib/corlib.toml", "lib/a.toml", "lib/b.toml"]
sources = ["units/widget.toml", "units/again.toml"]

[project]
name = "Demo"
`)
	shared := func(name string) *reflection.AssemblyDescriptor {
		return &reflection.AssemblyDescriptor{
			Name:    name,
			Classes: []reflection.ClassDescriptor{{Name: "Shared.Thing", Bases: []reflection.TypeDescriptor{reflection.Simple("Shared.Gone")}}},
		}
	}
	writeBundle(t, filepath.Join(root, "lib", "a.toml"), shared("A"))
	writeBundle(t, filepath.Join(root, "lib", "b.toml"), shared("B"))
	writeFile(t, filepath.Join(root, "units", "again.toml"), "file = \"Again.cs\"\n[[types]]\nname = \"Acme.Widget\"\n")

	ws, err := workspace.Load(context.Background(), root, workspace.Options{Jobs: 2})
	if err != nil {
		t.Fatal(err)
	}
	snap := ws.Snapshot()
	got := codes(snap.Diagnostics)
	for _, want := range []diag.Code{diag.TableDuplicateDecl, diag.TableNameCollision, diag.BridgeUnresolvedBase} {
		if !slices.Contains(got, want) {
			t.Fatalf("missing %s in %v", want.ID(), snap.Diagnostics.Items())
		}
	}
	var collision string
	for _, d := range snap.Diagnostics.Items() {
		if d.Code == diag.TableNameCollision {
			collision = d.Message
		}
	}
	if collision != "Shared.Thing declared by A, B" {
		t.Fatalf("collision message = %q", collision)
	}
	thing, ok := snap.Project.GetType("Shared.Thing")
	if !ok || thing.Scope != "A" {
		t.Fatalf("first referenced table should win, got %v", thing)
	}
	widget, _ := snap.Project.GetType("Acme.Widget")
	if widget.Unit.FileName != filepath.Join(root, "src", "Widget.cs") {
		t.Fatalf("first declaration should be kept, got %s", widget.Unit.FileName)
	}
}

func TestRebuildReusesTablesAndKeepsOldSnapshots(t *testing.T) {
	root := newDemo(t, manifestText)
	ctx := context.Background()
	ws, err := workspace.Load(ctx, root, workspace.Options{})
	if err != nil {
		t.Fatal(err)
	}
	first := ws.Snapshot()

	second, err := ws.Rebuild(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Reused || second.Version != 2 || second.Assemblies[0] != first.Assemblies[0] {
		t.Fatalf("unchanged bundles should be reused")
	}

	writeFile(t, filepath.Join(root, "units", "helper.toml"), helperUnit+"\n[[types]]\nname = \"Acme.Extra\"\n")
	third, err := ws.Rebuild(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := third.Project.GetType("Acme.Extra"); !ok {
		t.Fatalf("rebuild should see the new type")
	}
	if _, ok := first.Project.GetType("Acme.Extra"); ok {
		t.Fatalf("old snapshot must not change")
	}
	if ws.Snapshot() != third {
		t.Fatalf("latest snapshot not published")
	}

	writeFile(t, filepath.Join(root, workspace.ManifestName), "[project\n")
	if _, err := ws.Rebuild(ctx); err == nil {
		t.Fatalf("expected manifest error")
	}
	if ws.Snapshot() != third {
		t.Fatalf("failed rebuild must keep the previous snapshot")
	}
}

func TestRebuildKeepsManifestFoundByLastSuccess(t *testing.T) {
	root := newDemo(t, manifestText)
	ctx := context.Background()
	ws, err := workspace.Load(ctx, filepath.Join(root, "units"), workspace.Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, workspace.ManifestName)
	if got := ws.Snapshot().Manifest.Path; got != want {
		t.Fatalf("manifest = %s, want %s", got, want)
	}

	// A manifest closer to the load directory is not picked up later.
	writeFile(t, filepath.Join(root, "units", workspace.ManifestName), "[project]\nname = \"Nearer\"\n")
	snap, err := ws.Rebuild(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Manifest.Path != want || snap.Manifest.Config.Project.Name == "Nearer" {
		t.Fatalf("rebuild switched manifests to %s", snap.Manifest.Path)
	}

	writeFile(t, want, "[project\n")
	if _, err := ws.Rebuild(ctx); err == nil {
		t.Fatalf("expected manifest error")
	}
	writeFile(t, want, manifestText)
	snap, err = ws.Rebuild(ctx)
	if err != nil || snap.Manifest.Path != want {
		t.Fatalf("rebuild after a failure = %v, %v", snap, err)
	}
}

func TestWatchRebuildsOnChange(t *testing.T) {
	root := newDemo(t, manifestText)
	ws, err := workspace.Load(context.Background(), root, workspace.Options{})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	reloaded := make(chan *workspace.Snapshot, 4)
	done := make(chan error, 1)
	go func() {
		done <- ws.Watch(ctx, workspace.WatchOptions{Exclude: []string{"*.swp"}}, func(s *workspace.Snapshot, err error) {
			if err == nil && s != nil {
				reloaded <- s
			}
		})
	}()

	unit := filepath.Join(root, "units", "helper.toml")
	deadline := time.After(8 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for i := 0; ; i++ {
		select {
		case s := <-reloaded:
			if _, ok := s.Project.GetType("Acme.Watched"); ok {
				cancel()
				<-done
				return
			}
		case <-tick.C:
			// The watcher may not be registered yet; keep touching the unit.
			if i < 50 {
				writeFile(t, unit, helperUnit+"\n[[types]]\nname = \"Acme.Watched\"\n")
			}
		case <-deadline:
			t.Fatalf("no rebuild observed")
		}
	}
}

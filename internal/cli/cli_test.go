package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartcore/pkg/cache"
	"github.com/matzehuels/chartcore/pkg/snapshot"
)

const barOption = `{
	"xAxis": {"type": "category", "data": ["a", "b", "c"]},
	"yAxis": {"type": "value"},
	"series": [
		{"type": "bar", "name": "sales", "data": [1, 2, 3]},
		{"type": "line", "name": "trend", "data": [1, 1.5, 2.5]}
	]
}`

const forceOption = `{"series": [{
	"type": "graph", "layout": "force",
	"nodes": [{"name": "a"}, {"name": "b"}, {"name": "c"}],
	"links": [{"source": "a", "target": "b"}, {"source": "b", "target": "c"}]
}]}`

// run executes the root command with args and returns its output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	var out bytes.Buffer
	c := &CLI{Logger: log.NewWithOptions(io.Discard, log.Options{}), Out: &out}
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetErr(io.Discard)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLayoutCommand(t *testing.T) {
	a := writeFile(t, "a.json", barOption)
	b := writeFile(t, "b.json", forceOption)

	out, err := run(t, "layout", a, b, "--width", "400")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	for _, input := range []string{a, b} {
		path := strings.TrimSuffix(input, ".json") + ".layout.json"
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		l, err := snapshot.Unmarshal(data)
		if err != nil {
			t.Fatalf("unmarshal %s: %v", path, err)
		}
		if l.Width != 400 {
			t.Errorf("%s width = %v, want 400", path, l.Width)
		}
		if !strings.Contains(out, path) {
			t.Errorf("output does not list %s:\n%s", path, out)
		}
	}
}

func TestLayoutCommandStdout(t *testing.T) {
	a := writeFile(t, "a.json", barOption)
	out, err := run(t, "layout", a, "-o", "-", "--no-cache")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	l, err := snapshot.Unmarshal([]byte(out))
	if err != nil {
		t.Fatalf("stdout is not a layout: %v\n%s", err, out)
	}
	if len(l.Series) != 2 {
		t.Errorf("series = %d, want 2", len(l.Series))
	}
}

func TestLayoutCommandErrors(t *testing.T) {
	a := writeFile(t, "a.json", barOption)
	bad := writeFile(t, "bad.json", `{"series": [`)
	tests := []struct {
		name string
		args []string
	}{
		{"output with several inputs", []string{"layout", a, a, "-o", "x.json"}},
		{"missing file", []string{"layout", filepath.Join(t.TempDir(), "none.json")}},
		{"invalid document", []string{"layout", bad}},
		{"bad size", []string{"layout", a, "--width=-5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestExportCommand(t *testing.T) {
	a := writeFile(t, "chart.json", barOption)
	if _, err := run(t, "export", a, "-f", "dot,json", "--series", "1", "--detailed"); err != nil {
		t.Fatalf("export: %v", err)
	}
	base := strings.TrimSuffix(a, ".json")
	dot, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatalf("read dot: %v", err)
	}
	if !strings.Contains(string(dot), "series 1") || strings.Contains(string(dot), "series 0") {
		t.Errorf("dot export ignores --series:\n%s", dot)
	}

	// A layout file is exported without another pass.
	out := filepath.Join(t.TempDir(), "again.dot")
	if _, err := run(t, "export", base+".layout.json", "-f", "dot", "-o", out); err != nil {
		t.Fatalf("export layout: %v", err)
	}
	again, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(again), "series 0") {
		t.Errorf("layout export misses series 0:\n%s", again)
	}
}

func TestExportInvalidFormat(t *testing.T) {
	a := writeFile(t, "chart.json", barOption)
	if _, err := run(t, "export", a, "-f", "gif"); err == nil {
		t.Error("export with gif succeeded")
	}
}

func TestInspectCommand(t *testing.T) {
	a := writeFile(t, "chart.json", barOption)

	out, err := run(t, "inspect", a, "--dimensions")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"sales", "trend", "cartesian2d", "series 0 dimensions"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output misses %q:\n%s", want, out)
		}
	}

	out, err = run(t, "inspect", a, "--series", "line:*")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if strings.Contains(out, "sales") || !strings.Contains(out, "trend") {
		t.Errorf("filtered inspect output:\n%s", out)
	}

	if _, err := run(t, "inspect", a, "--series", "[bar"); err == nil {
		t.Error("invalid glob accepted")
	}
}

func TestForceBatch(t *testing.T) {
	a := writeFile(t, "graph.json", forceOption)
	out, err := run(t, "force", a, "--no-tui", "--max-passes", "20", "--force-steps", "5")
	if err != nil {
		t.Fatalf("force: %v", err)
	}
	if strings.Count(out, "o") < 1 || !strings.Contains(out, "1 series") {
		t.Errorf("force output:\n%s", out)
	}
}

func TestCacheCommands(t *testing.T) {
	out, err := run(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), appName) {
		t.Errorf("cache path = %q", out)
	}
	dir := t.TempDir()
	cacheDir = func() (string, error) { return dir, nil }
	t.Cleanup(func() { cacheDir = cache.DefaultDir })

	if _, err := run(t, "layout", writeFile(t, "a.json", barOption)); err != nil {
		t.Fatalf("layout: %v", err)
	}
	out, err = run(t, "cache", "info")
	if err != nil {
		t.Fatalf("cache info: %v", err)
	}
	if strings.Contains(out, " 0 cached entries") {
		t.Errorf("cache info after layout = %q", out)
	}
	out, err = run(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Removed") {
		t.Errorf("cache clear = %q", out)
	}
}

func TestByteSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1536, "1.5 KiB"},
		{3 << 20, "3.0 MiB"},
	}
	for _, tt := range tests {
		if got := byteSize(tt.in); got != tt.want {
			t.Errorf("byteSize(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCompletion(t *testing.T) {
	out, err := run(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, appName) {
		t.Error("bash completion does not mention the command")
	}
	if _, err := run(t, "completion", "tcsh"); err == nil {
		t.Error("completion accepted tcsh")
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"chart.json", "chart"},
		{"dir/chart.toml", "dir/chart"},
		{"chart.layout.json", "chart"},
		{"chart", "chart"},
	}
	for _, tt := range tests {
		if got := basePath(tt.in); got != tt.want {
			t.Errorf("basePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseIndices(t *testing.T) {
	got, err := parseIndices("0, 2")
	if err != nil || len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("parseIndices = %v, %v", got, err)
	}
	if _, err := parseIndices("x"); err == nil {
		t.Error("parseIndices(x) succeeded")
	}
}

func TestIsLayoutDocument(t *testing.T) {
	tests := []struct {
		doc  string
		want bool
	}{
		{`{"width": 10, "height": 10, "series": []}`, true},
		{barOption, false},
		{`{"width": "10", "height": 10, "series": []}`, false},
		{`not json`, false},
	}
	for _, tt := range tests {
		if got := isLayoutDocument([]byte(tt.doc)); got != tt.want {
			t.Errorf("isLayoutDocument(%.30q) = %v, want %v", tt.doc, got, tt.want)
		}
	}
}

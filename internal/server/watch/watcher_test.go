package watch

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

const testDebounce = 20 * time.Millisecond

func startWatcher(t *testing.T, root string, opts ...Option) <-chan []string {
	t.Helper()

	batches := make(chan []string, 16)
	opts = append([]Option{
		WithDebounce(testDebounce),
		WithOnChange(func(paths []string) { batches <- paths }),
	}, opts...)

	w, err := New(root, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	w.StartAsync()
	t.Cleanup(func() { w.Stop() })
	return batches
}

// waitFor returns the first batch containing path.
func waitFor(t *testing.T, batches <-chan []string, path string) []string {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case batch := <-batches:
			if slices.Contains(batch, path) {
				return batch
			}
		case <-deadline:
			t.Fatalf("timeout waiting for change to %s", path)
			return nil
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", path, err)
	}
}

func TestNew_MissingRoot(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("New() on a missing root should fail")
	}
}

func TestWatcher_FileChange(t *testing.T) {
	root := t.TempDir()
	batches := startWatcher(t, root)

	writeFile(t, filepath.Join(root, "index.html"), "hello")

	waitFor(t, batches, "index.html")
}

func TestWatcher_Debounce(t *testing.T) {
	root := t.TempDir()
	batches := startWatcher(t, root)

	for _, name := range []string{"a.html", "b.html", "c.html"} {
		writeFile(t, filepath.Join(root, name), name)
	}

	batch := waitFor(t, batches, "c.html")
	if !slices.IsSorted(batch) {
		t.Errorf("batch %v should be sorted", batch)
	}
}

func TestWatcher_Ignore(t *testing.T) {
	root := t.TempDir()
	batches := startWatcher(t, root, WithIgnore("server.key", "server.crt"))

	writeFile(t, filepath.Join(root, "server.key"), "key")
	writeFile(t, filepath.Join(root, "sw.js"), "self")

	batch := waitFor(t, batches, "sw.js")
	if slices.Contains(batch, "server.key") {
		t.Errorf("ignored file reported in batch %v", batch)
	}
}

func TestWatcher_NewDirectory(t *testing.T) {
	root := t.TempDir()
	batches := startWatcher(t, root)

	sub := filepath.Join(root, "pages")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	waitFor(t, batches, "pages")

	writeFile(t, filepath.Join(sub, "test.html"), "x")
	waitFor(t, batches, "pages/test.html")
}

func TestWatcher_ExistingSubdirectory(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "assets")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	batches := startWatcher(t, root)

	writeFile(t, filepath.Join(sub, "app.js"), "x")
	waitFor(t, batches, "assets/app.js")
}

func TestWatcher_StopIdempotent(t *testing.T) {
	w, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	w.StartAsync()

	if err := w.Stop(); err != nil {
		t.Errorf("first Stop() error = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}

func TestSkipDir(t *testing.T) {
	tests := map[string]bool{
		".git":         true,
		"node_modules": true,
		"assets":       false,
		"web":          false,
	}
	for name, want := range tests {
		if got := skipDir(name); got != want {
			t.Errorf("skipDir(%q) = %v, want %v", name, got, want)
		}
	}
}

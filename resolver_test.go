package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// newTestConfig returns a config rooted at a fresh directory holding files.
func newTestConfig(t *testing.T, files map[string]string) *Config {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return &Config{
		Port:         8080,
		DocumentRoot: root,
		IndexNames:   []string{"index.html", "index.htm"},
		Types: []ContentType{
			{".html", "text/html"},
			{".css", "text/css"},
			{".txt", "text/plain"},
		},
		KeepAliveTimeout: 5 * time.Second,
		ReadSize:         4096,
		LineEnding:       "\n",
	}
}

func TestResolveIndex(t *testing.T) {
	cfg := newTestConfig(t, map[string]string{
		"index.html": "first",
		"index.htm":  "second",
	})
	res := Resolve(cfg, "/")
	defer res.Close()
	if res.Outcome != FoundIndex {
		t.Fatalf("got %v, want found-index", res.Outcome)
	}
	ExpectEqual(t, cfg.DocumentRoot+"/index.html", res.Path)
	ExpectEqual(t, "text/html", res.ContentType)
}

func TestResolveIndexFallback(t *testing.T) {
	cfg := newTestConfig(t, map[string]string{"index.htm": "second"})
	cfg.IndexNames = []string{"index.html", "index.htm", "default.txt"}
	res := Resolve(cfg, "/")
	defer res.Close()
	if res.Outcome != FoundIndex {
		t.Fatalf("got %v, want found-index", res.Outcome)
	}
	ExpectEqual(t, cfg.DocumentRoot+"/index.htm", res.Path)
	// index pages are html whatever their name says
	ExpectEqual(t, "text/html", res.ContentType)
}

func TestResolveIndexMissing(t *testing.T) {
	cfg := newTestConfig(t, map[string]string{"other.html": "x"})
	res := Resolve(cfg, "/")
	if res.Outcome != NotFound {
		t.Errorf("got %v, want not-found", res.Outcome)
	}
	if res.File != nil {
		t.Error("not-found must not hold a file")
	}
}

func TestResolveFile(t *testing.T) {
	cfg := newTestConfig(t, map[string]string{"css/site.css": "body{}"})
	res := Resolve(cfg, "/css/site.css")
	defer res.Close()
	if res.Outcome != FoundFile {
		t.Fatalf("got %v, want found-file", res.Outcome)
	}
	ExpectEqual(t, "text/css", res.ContentType)
	if res.File == nil {
		t.Fatal("found-file must hold an open file")
	}
}

func TestResolveNotFound(t *testing.T) {
	cfg := newTestConfig(t, map[string]string{"sub/a.txt": "a"})
	for _, uri := range []string{"/missing.png", "/sub", "/sub/b.txt"} {
		res := Resolve(cfg, uri)
		if res.Outcome != NotFound {
			t.Errorf("%s: got %v, want not-found", uri, res.Outcome)
		}
	}
}

func TestResolveUnsupportedType(t *testing.T) {
	cfg := newTestConfig(t, map[string]string{"img.png": "\x89PNG"})
	res := Resolve(cfg, "/img.png")
	if res.Outcome != UnsupportedType {
		t.Fatalf("got %v, want unsupported-type", res.Outcome)
	}
	if res.File != nil {
		t.Error("unsupported-type must not hold a file")
	}
}

func TestResolveSubstringMatch(t *testing.T) {
	cfg := newTestConfig(t, map[string]string{
		"notes.txt.bak": "old",
		"a.css.html":    "<p>",
	})
	res := Resolve(cfg, "/notes.txt.bak")
	res.Close()
	ExpectEqual(t, "text/plain", res.ContentType)

	res = Resolve(cfg, "/a.css.html")
	res.Close()
	ExpectEqual(t, "text/html", res.ContentType)
}

func TestResolutionCloseTwice(t *testing.T) {
	cfg := newTestConfig(t, map[string]string{"a.txt": "a"})
	res := Resolve(cfg, "/a.txt")
	if err := res.Close(); err != nil {
		t.Fatal(err)
	}
	if err := res.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}

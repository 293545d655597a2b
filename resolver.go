package main

import (
	"os"
)

// openFile opens path for reading. A directory is not a servable file, so it
// is reported like any other open failure.
func openFile(path string) (*os.File, bool) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		f.Close()
		return nil, false
	}
	return f, true
}

// Resolve maps uri onto the document root and negotiates its content type.
// Paths are joined by plain concatenation: ".." segments are not cleaned and
// a uri can escape the document root.
func Resolve(cfg *Config, uri string) *Resolution {
	if uri == "/" {
		for _, name := range cfg.IndexNames {
			path := cfg.DocumentRoot + "/" + name
			if f, ok := openFile(path); ok {
				// index pages are always html whatever their extension
				return &Resolution{
					Outcome:     FoundIndex,
					Path:        path,
					ContentType: "text/html",
					File:        f,
				}
			}
		}
		return &Resolution{Outcome: NotFound}
	}

	path := cfg.DocumentRoot + uri
	f, ok := openFile(path)
	if !ok {
		return &Resolution{Outcome: NotFound, Path: path}
	}
	ct, ok := cfg.ContentTypeFor(uri)
	if !ok {
		f.Close()
		return &Resolution{Outcome: UnsupportedType, Path: path}
	}
	return &Resolution{
		Outcome:     FoundFile,
		Path:        path,
		ContentType: ct,
		File:        f,
	}
}

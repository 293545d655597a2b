package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultKeepAliveTimeout = 10 * time.Second
	defaultReadSize         = 4096
	maxIndexNames           = 8
	defaultPort             = 8080
	defaultDocumentRoot     = "."

	// a single read must hold a whole request line
	minReadSize = 4096
	maxReadSize = 8192
)

var knownDirectives = map[string]bool{
	"Listen":           true,
	"DocumentRoot":     true,
	"DirectoryIndex":   true,
	"KeepAliveTimeout": true,
	"ReadSize":         true,
	"LineEnding":       true,
}

// ContentType maps a file extension (with its leading dot) to a MIME type.
type ContentType struct {
	Ext  string
	Type string
}

// Config is built once before serving and never mutated afterwards, so
// workers share it without locking.
type Config struct {
	Port             int
	DocumentRoot     string
	IndexNames       []string
	Types            []ContentType // ordered, first match wins
	KeepAliveTimeout time.Duration
	ReadSize         int
	LineEnding       string
}

func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Unable to open configuration file: %w", err)
	}
	defer f.Close()
	return ParseConfig(f)
}

// ParseConfig reads ws.conf style directives, one per line. Lines it does not
// know are skipped with a warning; Listen and DocumentRoot fall back to
// defaults when absent.
func ParseConfig(r io.Reader) (*Config, error) {
	cfg := &Config{
		KeepAliveTimeout: defaultKeepAliveTimeout,
		ReadSize:         defaultReadSize,
		LineEnding:       "\n",
	}
	var hasPort, hasRoot bool

	sc := bufio.NewScanner(r)
	for lineno := 1; sc.Scan(); lineno++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		if !knownDirectives[fields[0]] && fields[0][0] != '.' {
			log.Printf("W config line %d: skipping unknown directive %s", lineno, fields[0])
			continue
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: missing value for %s", lineno, fields[0])
		}
		key, value := fields[0], fields[1]

		switch {
		case key == "Listen":
			port, err := strconv.Atoi(value)
			if err != nil || port < 2 || port > 65535 {
				return nil, fmt.Errorf("line %d: Invalid port number: %s", lineno, value)
			}
			cfg.Port = port
			hasPort = true
		case key == "DocumentRoot":
			cfg.DocumentRoot = strings.TrimRight(strings.Trim(value, `"`), "/")
			hasRoot = true
		case key == "DirectoryIndex":
			if len(fields)-1 > maxIndexNames {
				return nil, fmt.Errorf("line %d: at most %d index names allowed", lineno, maxIndexNames)
			}
			cfg.IndexNames = append([]string(nil), fields[1:]...)
		case key == "KeepAliveTimeout":
			secs, err := strconv.Atoi(value)
			if err != nil || secs < 0 {
				return nil, fmt.Errorf("line %d: Invalid keep-alive timeout: %s", lineno, value)
			}
			cfg.KeepAliveTimeout = time.Duration(secs) * time.Second
		case key == "ReadSize":
			size, err := strconv.Atoi(value)
			if err != nil || size <= 0 {
				return nil, fmt.Errorf("line %d: Invalid read size: %s", lineno, value)
			}
			if size < minReadSize || size > maxReadSize {
				clamped := min(max(size, minReadSize), maxReadSize)
				log.Printf("W config line %d: read size %d out of range, using %d", lineno, size, clamped)
				size = clamped
			}
			cfg.ReadSize = size
		case key == "LineEnding":
			switch strings.ToLower(value) {
			case "lf":
				cfg.LineEnding = "\n"
			case "crlf":
				cfg.LineEnding = "\r\n"
			default:
				return nil, fmt.Errorf("line %d: Invalid line ending: %s", lineno, value)
			}
		case key[0] == '.':
			cfg.Types = append(cfg.Types, ContentType{Ext: key, Type: value})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("Failed to read configuration: %w", err)
	}

	if !hasPort {
		log.Printf("W config: no Listen directive, using port %d", defaultPort)
		cfg.Port = defaultPort
	}
	if !hasRoot {
		log.Printf("W config: no DocumentRoot directive, using %q", defaultDocumentRoot)
		cfg.DocumentRoot = defaultDocumentRoot
	}
	return cfg, nil
}

// ContentTypeFor returns the type of the first entry whose extension occurs
// anywhere in uri. Containment, not suffix: "/a.html.bak" is text/html.
func (c *Config) ContentTypeFor(uri string) (string, bool) {
	for _, ct := range c.Types {
		if strings.Contains(uri, ct.Ext) {
			return ct.Type, true
		}
	}
	return "", false
}

package main

import "os"

const keepAliveToken = "Connection: keep-alive"

// Only these two version strings are accepted.
var acceptedVersions = []string{"HTTP/1.1", "HTTP/1.2"}

// Not a full header set, unlike http.Request
type Request struct {
	Method    string
	URI       string
	Version   string
	KeepAlive bool
}

type Outcome int

const (
	NotFound Outcome = iota
	FoundFile
	FoundIndex
	UnsupportedType
)

func (o Outcome) String() string {
	switch o {
	case FoundFile:
		return "found-file"
	case FoundIndex:
		return "found-index"
	case UnsupportedType:
		return "unsupported-type"
	default:
		return "not-found"
	}
}

// Resolution is the result of mapping one request URI onto the document
// root. When File is non-nil the receiver owns it and must call Close.
type Resolution struct {
	Outcome     Outcome
	Path        string
	ContentType string
	File        *os.File
}

func (r *Resolution) Close() error {
	if r.File == nil {
		return nil
	}
	err := r.File.Close()
	r.File = nil
	return err
}

// Status lines, the uri (or the offending field) is appended.
const (
	statusOK             = "HTTP/1.1 200 OK"
	statusBadRequest     = "HTTP/1.1 400 Bad Request: "
	statusNotFound       = "HTTP/1.1 404 Not Found: "
	statusNotImplemented = "HTTP/1.1 501 Not Implemented: "
)

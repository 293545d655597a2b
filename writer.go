package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

const bodyChunkSize = 8192

// writeFull keeps writing until b is drained or the writer fails.
func writeFull(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		b = b[n:]
	}
	return nil
}

// writeStatusOnly sends a bodiless response: the status line and a blank line.
func writeStatusOnly(w io.Writer, status, detail, eol string) error {
	return writeFull(w, []byte(status+detail+eol+eol))
}

func WriteBadRequest(w io.Writer, e *BadRequestError, eol string) error {
	return writeStatusOnly(w, statusBadRequest, e.Error(), eol)
}

func WriteNotFound(w io.Writer, uri, eol string) error {
	return writeStatusOnly(w, statusNotFound, uri, eol)
}

func WriteNotImplemented(w io.Writer, uri, eol string) error {
	return writeStatusOnly(w, statusNotImplemented, uri, eol)
}

// WriteFile sends a 200 response for a resolved file followed by its body.
// In "\n" mode a single "\n" trails the body; it is not counted in
// Content-Length. It returns the number of body bytes sent.
func WriteFile(w io.Writer, res *Resolution, keepAlive bool, eol string) (int64, error) {
	if res.File == nil {
		return 0, errors.New("no file to send")
	}
	size, err := res.File.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("Failed to size %s: %w", res.Path, err)
	}
	if _, err := res.File.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("Failed to rewind %s: %w", res.Path, err)
	}

	var hdr strings.Builder
	fmt.Fprintf(&hdr, "%s%s", statusOK, eol)
	fmt.Fprintf(&hdr, "Content-Type: %s%s", res.ContentType, eol)
	fmt.Fprintf(&hdr, "Content-Length: %d%s", size, eol)
	if keepAlive {
		fmt.Fprintf(&hdr, "%s%s", keepAliveToken, eol)
	}
	hdr.WriteString(eol)
	if err := writeFull(w, []byte(hdr.String())); err != nil {
		return 0, err
	}

	// never send more than was announced, even if the file grows meanwhile
	body := io.LimitReader(res.File, size)
	buf := make([]byte, bodyChunkSize)
	var sent int64
	for {
		n, rerr := body.Read(buf)
		if n > 0 {
			if err := writeFull(w, buf[:n]); err != nil {
				return sent, err
			}
			sent += int64(n)
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return sent, fmt.Errorf("Failed to read %s: %w", res.Path, rerr)
		}
	}

	if eol == "\n" {
		if err := writeFull(w, []byte("\n")); err != nil {
			return sent, err
		}
	}
	return sent, nil
}

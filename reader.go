package main

import (
	"bytes"
	"fmt"
)

// BadRequestError names the request field that failed validation.
type BadRequestError struct {
	Field string
	Value string
}

func (e *BadRequestError) Error() string {
	return fmt.Sprintf("Invalid %s: %s", e.Field, e.Value)
}

// ParseRequest takes the bytes of one read. The first three whitespace
// separated tokens are the request line, the rest is only searched for the
// keep-alive token. Missing tokens are left empty.
func ParseRequest(raw []byte) *Request {
	req := &Request{
		KeepAlive: bytes.Contains(raw, []byte(keepAliveToken)),
	}
	fields := bytes.Fields(raw)
	if len(fields) > 3 {
		fields = fields[:3]
	}
	dst := []*string{&req.Method, &req.URI, &req.Version}
	for i, f := range fields {
		*dst[i] = string(f)
	}
	return req
}

func ValidateRequest(req *Request) error {
	if req.Method != "GET" {
		return &BadRequestError{"Method", req.Method}
	}
	if req.URI == "" {
		return &BadRequestError{"URI", req.URI}
	}
	for _, v := range acceptedVersions {
		if req.Version == v {
			return nil
		}
	}
	return &BadRequestError{"HTTP-Version", req.Version}
}

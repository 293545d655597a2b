package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// units are the decimal suffixes accepted in a fixture size.
var units = map[byte]int{
	'k': 1000,
	'm': 1000 * 1000,
	'g': 1000 * 1000 * 1000,
}

// sizeToInt turns "120", "1k" or "10m" into a byte count.
func sizeToInt(s string) (int, error) {
	if len(s) == 0 {
		return 0, fmt.Errorf("Invalid size")
	}
	var err error
	var m, sz int
	m, ok := units[s[len(s)-1]]
	if ok {
		sz, err = strconv.Atoi(s[:len(s)-1])
	} else {
		m = 1
		sz, err = strconv.Atoi(s)
	}
	if err != nil {
		return 0, err
	}
	if sz < 0 {
		return 0, fmt.Errorf("Invalid size: %s", s)
	}
	return sz * m, nil
}

type fileSpec struct {
	name string
	size int
}

// parseFileSpecs reads "name:size,name:size".
func parseFileSpecs(s string) ([]fileSpec, error) {
	var specs []fileSpec
	for _, item := range strings.Split(s, ",") {
		if item == "" {
			continue
		}
		name, size, ok := strings.Cut(item, ":")
		if !ok || name == "" {
			return nil, fmt.Errorf("Invalid file spec: %s", item)
		}
		sz, err := sizeToInt(size)
		if err != nil {
			return nil, fmt.Errorf("Invalid file spec %s: %v", item, err)
		}
		specs = append(specs, fileSpec{name, sz})
	}
	return specs, nil
}

// asciiFiller writes a repeating run of printable ASCII, never '\n'.
type asciiFiller struct {
	nextAscii byte
	buf       [4096]byte
}

func newAsciiFiller() *asciiFiller {
	c := &asciiFiller{}
	for i := 0; i < len(c.buf); i++ {
		for {
			c.nextAscii = (c.nextAscii + 1) % 128
			if strconv.IsPrint(rune(c.nextAscii)) && c.nextAscii != '\n' {
				break
			}
		}
		c.buf[i] = c.nextAscii
	}
	return c
}

// fill writes exactly size bytes to w.
func (c *asciiFiller) fill(w io.Writer, size int) error {
	for size > 0 {
		n := min(size, len(c.buf))
		if _, err := w.Write(c.buf[:n]); err != nil {
			return err
		}
		size -= n
	}
	return nil
}

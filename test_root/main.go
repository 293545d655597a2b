// Command test_root lays out a document root of printable ASCII files and a
// matching ws.conf, for exercising the server by hand or under load.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

var (
	dir   = flag.String("dir", "www", "document root to create")
	port  = flag.Int("port", 8080, "port number written to ws.conf")
	files = flag.String("files", "index.html:120,small.txt:1k,large.txt:10m", "comma separated name:size list")
	conf  = flag.String("conf", "ws.conf", "configuration file to write")
)

var defaultTypes = [][2]string{
	{".html", "text/html"},
	{".htm", "text/html"},
	{".txt", "text/plain"},
	{".css", "text/css"},
	{".js", "application/javascript"},
	{".png", "image/png"},
	{".gif", "image/gif"},
	{".jpg", "image/jpg"},
}

func writeFile(path string, size int, filler *asciiFiller) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := filler.fill(f, size); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeConf(path, root string, port int, index []string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# generated by test_root\n")
	fmt.Fprintf(&b, "Listen %d\n", port)
	fmt.Fprintf(&b, "DocumentRoot %q\n", root)
	fmt.Fprintf(&b, "DirectoryIndex %s\n", strings.Join(index, " "))
	for _, t := range defaultTypes {
		fmt.Fprintf(&b, "%s %s\n", t[0], t[1])
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func main() {
	flag.Parse()
	specs, err := parseFileSpecs(*files)
	if err != nil {
		log.Fatal(err)
	}

	filler := newAsciiFiller()
	var index []string
	for _, s := range specs {
		if err := writeFile(filepath.Join(*dir, s.name), s.size, filler); err != nil {
			log.Fatal(err)
		}
		if strings.HasPrefix(s.name, "index.") {
			index = append(index, s.name)
		}
		log.Printf("I wrote %s (%d bytes)", s.name, s.size)
	}
	if len(index) == 0 {
		index = []string{"index.html"}
	}

	root, err := filepath.Abs(*dir)
	if err != nil {
		log.Fatal(err)
	}
	if err := writeConf(*conf, root, *port, index); err != nil {
		log.Fatal(err)
	}
	log.Printf("I wrote %s", *conf)
}

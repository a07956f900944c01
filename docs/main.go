// Command docs writes the glarch reference as markdown pages and man pages.
//
//	go run ./docs [-out dir] [-man=false]
package main

import (
	"os"
	"path/filepath"

	"github.com/glarch/glarch/cmd"
	"github.com/glarch/glarch/internal/logger"
	"github.com/pkg/errors"
	"github.com/spf13/cobra/doc"
	flag "github.com/spf13/pflag"
)

var log = logger.GetInstance()

func main() {
	out := flag.String("out", "docs", "directory the pages are written to")
	man := flag.Bool("man", true, "also write man pages under <out>/man1")
	flag.Parse()

	if err := generate(*out, *man); err != nil {
		log.Fatal(err)
	}
}

func generate(dir string, man bool) error {
	// dated footers would make every regeneration a diff
	cmd.RootCmd.DisableAutoGenTag = true

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}
	if err := doc.GenMarkdownTree(cmd.RootCmd, dir); err != nil {
		return errors.Wrap(err, "writing markdown pages")
	}
	if !man {
		return nil
	}

	manDir := filepath.Join(dir, "man1")
	if err := os.MkdirAll(manDir, 0o755); err != nil {
		return errors.Wrap(err, "creating man directory")
	}
	header := &doc.GenManHeader{
		Title:   "GLARCH",
		Section: "1",
		Source:  "glarch",
		Manual:  "GitLab hierarchy explorer",
	}
	return errors.Wrap(doc.GenManTree(cmd.RootCmd, header, manDir), "writing man pages")
}

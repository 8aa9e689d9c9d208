// Package fs writes exported trees to files.
package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/domdex"
)

// Extensions maps output format names to file extensions.
var Extensions = map[string]string{
	"html":     ".html",
	"xml":      ".xml",
	"markdown": ".md",
	"json":     ".json",
}

// OutputName returns the file name for the output of source in format.
// Example: pages/home.htm + markdown → home.md. An output that would keep
// the source's extension gets a ".simplified" infix: home.html → home.simplified.html.
func OutputName(source, format string) (string, error) {
	ext, ok := Extensions[format]
	if !ok {
		return "", domdex.Errorf(domdex.EINVALID, "unknown output format %q", format)
	}

	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		stem = "document"
	}
	if strings.EqualFold(filepath.Ext(base), ext) {
		stem += ".simplified"
	}
	return stem + ext, nil
}

// Writer writes one output file per source document into a directory.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// Write creates the output file for source and fills it with write. The
// file appears under its final name only once write succeeds.
func (w *Writer) Write(source, format string, write func(io.Writer) error) (string, error) {
	name, err := OutputName(source, format)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return "", err
	}

	fullPath := filepath.Join(w.baseDir, name)
	tmp, err := os.CreateTemp(w.baseDir, "."+name+".tmp*")
	if err != nil {
		return "", err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return "", err
	}
	return fullPath, nil
}

// WriteTree exports t for source with exp and returns the written path.
func (w *Writer) WriteTree(source string, exp domdex.Exporter, t *domdex.Tree) (string, error) {
	return w.Write(source, exp.Name(), func(out io.Writer) error {
		return exp.Export(out, t)
	})
}

// Package htmltomarkdown exports trees as Markdown using html-to-markdown.
package htmltomarkdown

import (
	"io"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/domdex"
	"github.com/fwojciec/domdex/html"
)

// Ensure Exporter implements domdex.Exporter at compile time.
var _ domdex.Exporter = (*Exporter)(nil)

// Exporter wraps html-to-markdown to write trees as Markdown.
type Exporter struct {
	conv *converter.Converter
}

// NewExporter creates a new Exporter.
func NewExporter() *Exporter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Exporter{conv: conv}
}

// Name returns "markdown".
func (e *Exporter) Name() string {
	return "markdown"
}

// Export writes t to w as Markdown. A tree without text produces no output.
func (e *Exporter) Export(w io.Writer, t *domdex.Tree) error {
	md, err := e.Convert(t)
	if err != nil {
		return err
	}
	if md == "" {
		return nil
	}
	_, err = io.WriteString(w, md+"\n")
	return err
}

// Convert returns t as a Markdown string.
func (e *Exporter) Convert(t *domdex.Tree) (string, error) {
	if t == nil {
		return "", domdex.Errorf(domdex.EINVALID, "tree required")
	}
	markup, err := html.RenderString(t)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(markup) == "" {
		return "", nil
	}

	result, err := e.conv.ConvertString(markup)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result), nil
}

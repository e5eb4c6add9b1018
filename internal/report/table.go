package report

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/rohmanhakim/top-movies/internal/metadata"
	"github.com/rohmanhakim/top-movies/pkg/failure"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var _ Renderer = (*TableRenderer)(nil)

// TableRenderer prints a report as a GitHub-flavored Markdown table.
type TableRenderer struct {
	out          io.Writer
	conv         *converter.Converter
	metadataSink metadata.MetadataSink
}

func NewTableRenderer(out io.Writer, metadataSink metadata.MetadataSink) *TableRenderer {
	return &TableRenderer{
		out: out,
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
		metadataSink: metadataSink,
	}
}

func (t *TableRenderer) Render(_ context.Context, r Report) failure.ClassifiedError {
	if len(r.Buckets) == 0 {
		if _, err := fmt.Fprintf(t.out, "%s: no data\n", r.Title); err != nil {
			return t.fail(r.Kind, ErrCauseWriteFailure, err)
		}
		return nil
	}

	markdown, err := t.conv.ConvertNode(tableDocument(r))
	if err != nil {
		return t.fail(r.Kind, ErrCauseRenderFailure, err)
	}

	if _, err := fmt.Fprintf(t.out, "%s\n\n%s\n", r.Title, markdown); err != nil {
		return t.fail(r.Kind, ErrCauseWriteFailure, err)
	}
	return nil
}

func (t *TableRenderer) fail(kind Kind, cause ReportErrorCause, err error) *ReportError {
	reportErr := &ReportError{
		Message: "could not print table",
		Cause:   cause,
		Kind:    kind,
		Err:     err,
	}
	recordReportError(t.metadataSink, "TableRenderer.Render", reportErr)
	return reportErr
}

// tableDocument builds <table> with one header row and one row per bucket,
// wrapped in a document node.
func tableDocument(r Report) *html.Node {
	tbl := element(atom.Table)

	thead := element(atom.Thead)
	thead.AppendChild(row(atom.Th, r.Label, "Movies"))
	tbl.AppendChild(thead)

	tbody := element(atom.Tbody)
	for _, b := range r.Buckets {
		tbody.AppendChild(row(atom.Td, b.Label, strconv.Itoa(b.Count)))
	}
	tbl.AppendChild(tbody)

	body := element(atom.Body)
	body.AppendChild(tbl)
	root := element(atom.Html)
	root.AppendChild(body)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(root)
	return doc
}

func row(cell atom.Atom, values ...string) *html.Node {
	tr := element(atom.Tr)
	for _, v := range values {
		c := element(cell)
		c.AppendChild(&html.Node{Type: html.TextNode, Data: v})
		tr.AppendChild(c)
	}
	return tr
}

func element(a atom.Atom) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
	}
}

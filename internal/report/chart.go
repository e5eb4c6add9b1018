package report

import (
	"bytes"
	"context"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/rohmanhakim/top-movies/internal/launcher"
	"github.com/rohmanhakim/top-movies/internal/metadata"
	"github.com/rohmanhakim/top-movies/pkg/failure"
	"github.com/rohmanhakim/top-movies/pkg/fileutil"
	"github.com/rohmanhakim/top-movies/pkg/hashutil"
)

var _ Renderer = (*ChartRenderer)(nil)

// ChartRenderer writes a report as a bar chart page, <dir>/<kind>.html,
// and opens it when an Opener is set.
type ChartRenderer struct {
	dir          string
	opener       launcher.Opener
	metadataSink metadata.MetadataSink
}

// NewChartRenderer returns a renderer writing into dir. A nil opener only
// writes the file.
func NewChartRenderer(dir string, opener launcher.Opener, metadataSink metadata.MetadataSink) *ChartRenderer {
	return &ChartRenderer{
		dir:          dir,
		opener:       opener,
		metadataSink: metadataSink,
	}
}

// Path returns where the chart of kind is written.
func (c *ChartRenderer) Path(kind Kind) string {
	return filepath.Join(c.dir, string(kind)+".html")
}

func (c *ChartRenderer) Render(_ context.Context, r Report) failure.ClassifiedError {
	page, err := renderBarChart(r)
	if err != nil {
		return c.fail(&ReportError{
			Message: "could not render chart",
			Cause:   ErrCauseRenderFailure,
			Kind:    r.Kind,
			Err:     err,
		})
	}

	path := c.Path(r.Kind)
	if err := fileutil.WriteFileAtomic(path, page); err != nil {
		return c.fail(&ReportError{
			Message: "could not write " + path,
			Cause:   ErrCauseWriteFailure,
			Kind:    r.Kind,
			Err:     err,
		})
	}

	attrs := []metadata.Attribute{
		metadata.NewAttr(metadata.AttrReport, string(r.Kind)),
	}
	if digest, err := hashutil.Digest(page, hashutil.HashAlgoBLAKE3); err == nil {
		attrs = append(attrs, metadata.NewAttr(metadata.AttrDigest, digest))
	}
	c.metadataSink.RecordArtifact(metadata.ArtifactChart, path, attrs)

	if c.opener == nil {
		return nil
	}
	if err := c.opener.OpenFile(path); err != nil {
		// the launcher records its own failures
		return &ReportError{
			Message:   "chart written to " + path + " but could not be opened",
			Retryable: true,
			Cause:     ErrCauseOpenFailure,
			Kind:      r.Kind,
			Err:       err,
		}
	}
	return nil
}

func (c *ChartRenderer) fail(err *ReportError) *ReportError {
	recordReportError(c.metadataSink, "ChartRenderer.Render", err)
	return err
}

func renderBarChart(r Report) ([]byte, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: r.Title,
		}),
		charts.WithTitleOpts(opts.Title{
			Title: r.Title,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: r.Label,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Movies",
		}),
	)

	data := make([]opts.BarData, 0, len(r.Buckets))
	for _, b := range r.Buckets {
		data = append(data, opts.BarData{Value: b.Count})
	}
	bar.SetXAxis(r.Labels()).
		AddSeries("Movies", data, charts.WithLabelOpts(opts.Label{
			Show:     opts.Bool(true),
			Position: "top",
		}))

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

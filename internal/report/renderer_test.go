package report_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/rohmanhakim/top-movies/internal/launcher"
	"github.com/rohmanhakim/top-movies/internal/launcher/launchertest"
	"github.com/rohmanhakim/top-movies/internal/metadata"
	"github.com/rohmanhakim/top-movies/internal/metadata/metadatatest"
	"github.com/rohmanhakim/top-movies/internal/report"
	"github.com/rohmanhakim/top-movies/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func directorReport() report.Report {
	return report.Report{
		Kind:    report.KindDirector,
		Title:   "Directors with more than 2 movies",
		Label:   "Director",
		Buckets: directorBuckets,
	}
}

func TestChartRenderer_WritesAndOpens(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	opener := &launchertest.Opener{}
	sink := &metadatatest.Sink{}
	r := report.NewChartRenderer(dir, opener, sink)

	require.Nil(t, r.Render(context.Background(), directorReport()))

	path := filepath.Join(dir, "director.html")
	assert.Equal(t, path, r.Path(report.KindDirector))

	page, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(page), "Directors with more than 2 movies")
	assert.Contains(t, string(page), "Christopher Nolan")
	assert.Contains(t, string(page), "Akira Kurosawa")

	assert.Equal(t, []string{path}, opener.Files())

	artifacts := sink.Artifacts()
	require.Len(t, artifacts, 1)
	assert.Equal(t, metadata.ArtifactChart, artifacts[0].Kind)
	assert.Equal(t, path, artifacts[0].Path)
	assert.True(t, strings.HasPrefix(metadatatest.AttrValue(artifacts[0].Attrs, metadata.AttrDigest), "blake3:"))
}

func TestChartRenderer_OverwritesPreviousChart(t *testing.T) {
	dir := t.TempDir()
	r := report.NewChartRenderer(dir, nil, &metadata.NoopSink{})

	first := directorReport()
	require.Nil(t, r.Render(context.Background(), first))

	second := directorReport()
	second.Buckets = []storage.Bucket{{Label: "Billy Wilder", Count: 5}}
	require.Nil(t, r.Render(context.Background(), second))

	page, err := os.ReadFile(r.Path(report.KindDirector))
	require.NoError(t, err)
	assert.Contains(t, string(page), "Billy Wilder")
	assert.NotContains(t, string(page), "Akira Kurosawa")
}

func TestChartRenderer_OpenFailureKeepsFile(t *testing.T) {
	dir := t.TempDir()
	opener := &launchertest.Opener{Err: &launcher.LaunchError{Cause: launcher.ErrCauseLaunchFailure, Message: "no browser"}}
	r := report.NewChartRenderer(dir, opener, &metadata.NoopSink{})

	err := r.Render(context.Background(), directorReport())
	require.NotNil(t, err)

	var reportErr *report.ReportError
	require.ErrorAs(t, err, &reportErr)
	assert.Equal(t, report.ErrCauseOpenFailure, reportErr.Cause)

	_, statErr := os.Stat(r.Path(report.KindDirector))
	assert.NoError(t, statErr)
}

func TestChartRenderer_WriteFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	sink := &metadatatest.Sink{}
	r := report.NewChartRenderer(blocker, nil, sink)

	err := r.Render(context.Background(), directorReport())
	require.NotNil(t, err)

	var reportErr *report.ReportError
	require.ErrorAs(t, err, &reportErr)
	assert.Equal(t, report.ErrCauseWriteFailure, reportErr.Cause)
	require.Len(t, sink.Errors(), 1)
	assert.Equal(t, "ChartRenderer.Render", sink.Errors()[0].Action)
}

func TestTableRenderer_OneRowPerBucket(t *testing.T) {
	var out bytes.Buffer
	r := report.NewTableRenderer(&out, &metadata.NoopSink{})

	require.Nil(t, r.Render(context.Background(), directorReport()))

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "Directors with more than 2 movies\n"))
	assert.Regexp(t, regexp.MustCompile(`\|\s*Director\s*\|\s*Movies\s*\|`), text)
	assert.Regexp(t, regexp.MustCompile(`\|\s*Christopher Nolan\s*\|\s*7\s*\|`), text)
	assert.Regexp(t, regexp.MustCompile(`\|\s*Akira Kurosawa\s*\|\s*6\s*\|`), text)

	tableLines := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "|") {
			tableLines++
		}
	}
	// header, separator, one per bucket
	assert.Equal(t, len(directorBuckets)+2, tableLines)
}

func TestTableRenderer_Empty(t *testing.T) {
	var out bytes.Buffer
	r := report.NewTableRenderer(&out, &metadata.NoopSink{})

	rep := directorReport()
	rep.Buckets = nil
	require.Nil(t, r.Render(context.Background(), rep))
	assert.Equal(t, "Directors with more than 2 movies: no data\n", out.String())
}

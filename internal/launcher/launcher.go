package launcher

import (
	"io"
	"net/url"
	"os"
	"time"

	"github.com/pkg/browser"
	"github.com/rohmanhakim/top-movies/internal/metadata"
	"github.com/rohmanhakim/top-movies/pkg/failure"
)

// Opener shows a web page or a local file to the user.
type Opener interface {
	OpenURL(rawURL string) failure.ClassifiedError
	OpenFile(path string) failure.ClassifiedError
}

var _ Opener = (*BrowserOpener)(nil)

// BrowserOpener hands targets to the system's default browser.
type BrowserOpener struct {
	metadataSink metadata.MetadataSink
	openURL      func(string) error
	openFile     func(string) error
}

// NewBrowserOpener returns an Opener backed by the default browser. Output
// of the spawned launcher process goes to out so it does not interleave
// with the console.
func NewBrowserOpener(metadataSink metadata.MetadataSink, out io.Writer) *BrowserOpener {
	if out == nil {
		out = io.Discard
	}
	browser.Stdout = out
	browser.Stderr = out
	return &BrowserOpener{
		metadataSink: metadataSink,
		openURL:      browser.OpenURL,
		openFile:     browser.OpenFile,
	}
}

// OpenURL accepts absolute http and https URLs only.
func (b *BrowserOpener) OpenURL(rawURL string) failure.ClassifiedError {
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return b.fail("BrowserOpener.OpenURL", &LaunchError{
			Message: "not an absolute http(s) URL",
			Cause:   ErrCauseInvalidTarget,
			Target:  rawURL,
		})
	}
	if err := b.openURL(u.String()); err != nil {
		return b.fail("BrowserOpener.OpenURL", &LaunchError{
			Message: err.Error(),
			Cause:   ErrCauseLaunchFailure,
			Target:  rawURL,
		})
	}
	return nil
}

func (b *BrowserOpener) OpenFile(path string) failure.ClassifiedError {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		msg := "is a directory"
		if err != nil {
			msg = err.Error()
		}
		return b.fail("BrowserOpener.OpenFile", &LaunchError{
			Message: msg,
			Cause:   ErrCauseInvalidTarget,
			Target:  path,
		})
	}
	if err := b.openFile(path); err != nil {
		return b.fail("BrowserOpener.OpenFile", &LaunchError{
			Message: err.Error(),
			Cause:   ErrCauseLaunchFailure,
			Target:  path,
		})
	}
	return nil
}

func (b *BrowserOpener) fail(action string, err *LaunchError) *LaunchError {
	b.metadataSink.RecordError(
		time.Now(),
		"launcher",
		action,
		mapLaunchErrorToMetadataCause(err),
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrURL, err.Target),
		},
	)
	return err
}

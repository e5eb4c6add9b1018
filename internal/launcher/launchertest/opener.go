// Package launchertest provides an in-memory launcher.Opener for tests.
package launchertest

import (
	"sync"

	"github.com/rohmanhakim/top-movies/pkg/failure"
)

// Opener records every target instead of launching anything. When Err is
// set it is returned from every call.
type Opener struct {
	Err failure.ClassifiedError

	mu    sync.Mutex
	urls  []string
	files []string
}

func (o *Opener) OpenURL(rawURL string) failure.ClassifiedError {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.urls = append(o.urls, rawURL)
	return o.Err
}

func (o *Opener) OpenFile(path string) failure.ClassifiedError {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.files = append(o.files, path)
	return o.Err
}

func (o *Opener) URLs() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.urls...)
}

func (o *Opener) Files() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.files...)
}

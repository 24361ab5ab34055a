package testsupport

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// FakeDevice records device commands. Pull writes a PNG to the local path
// unless the remote name is listed in MissingScreens.
type FakeDevice struct {
	mu sync.Mutex

	Width, Height  int
	MissingScreens map[string]bool
	TapErr         error
	StartErr       error
	calls          []string
}

// NewFakeDevice returns a device producing 1080x2400 screenshots.
func NewFakeDevice() *FakeDevice {
	return &FakeDevice{Width: 1080, Height: 2400, MissingScreens: map[string]bool{}}
}

func (d *FakeDevice) record(call string) {
	d.mu.Lock()
	d.calls = append(d.calls, call)
	d.mu.Unlock()
}

// Calls returns a copy of the recorded commands.
func (d *FakeDevice) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

// Count returns how many recorded commands start with prefix.
func (d *FakeDevice) Count(prefix string) int {
	n := 0
	for _, call := range d.Calls() {
		if strings.HasPrefix(call, prefix) {
			n++
		}
	}
	return n
}

func (d *FakeDevice) StartActivity(_ context.Context, component string) error {
	d.record("start " + component)
	return d.StartErr
}

func (d *FakeDevice) Tap(_ context.Context, x, y int) error {
	d.record(fmt.Sprintf("tap %d %d", x, y))
	return d.TapErr
}

func (d *FakeDevice) Screencap(_ context.Context, remotePath string) error {
	d.record("screencap " + remotePath)
	return nil
}

func (d *FakeDevice) Pull(_ context.Context, remotePath, localPath string) error {
	d.record("pull " + remotePath)
	if d.MissingScreens[filepath.Base(remotePath)] {
		return fmt.Errorf("remote object %q does not exist", remotePath)
	}
	return writePNG(localPath, d.Width, d.Height)
}

func (d *FakeDevice) Remove(_ context.Context, remotePath string) error {
	d.record("rm " + remotePath)
	return nil
}

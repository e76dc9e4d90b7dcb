package capture

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// MockCamera plays back pre-recorded frames for testing.
type MockCamera struct {
	frames  []*gocv.Mat
	index   int
	loop    bool
	width   int
	height  int
	failAll bool
	mu      sync.Mutex
	running bool
}

// NewMockCamera creates a mock camera that reports the given dimensions
// and serves the provided frames in order, optionally looping.
func NewMockCamera(frames []*gocv.Mat, width, height int, loop bool) *MockCamera {
	return &MockCamera{
		frames: frames,
		width:  width,
		height: height,
		loop:   loop,
	}
}

func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failAll {
		return fmt.Errorf("mock camera unavailable")
	}
	c.running = true
	c.index = 0
	return nil
}

func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	return nil
}

func (c *MockCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil, ErrCameraNotOpen
	}

	if len(c.frames) == 0 {
		// A camera with no canned frames still "works": hand over an
		// empty placeholder Mat so detector-level tests can run without
		// real image data.
		mat := gocv.NewMat()
		return &mat, nil
	}

	if c.index >= len(c.frames) {
		if c.loop {
			c.index = 0
		} else {
			return nil, fmt.Errorf("no more frames")
		}
	}

	// Clone so callers closing the frame do not destroy the original.
	frame := c.frames[c.index].Clone()
	c.index++

	return &frame, nil
}

func (c *MockCamera) Dimensions() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

func (c *MockCamera) SetFPS(fps int) {}
func (c *MockCamera) FPS() int       { return DefaultFPS }

func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// FailOpen makes subsequent Open calls return an error, simulating a
// missing or permission-denied device.
func (c *MockCamera) FailOpen(fail bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failAll = fail
}

// Reset restarts playback from the beginning.
func (c *MockCamera) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = 0
}

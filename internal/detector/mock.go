package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// Results can be set once with SetHands/SetError, or scripted per call
// with Script to exercise error-then-recovery sequences.
type MockDetector struct {
	mu       sync.Mutex
	hands    []HandLandmarks
	err      error
	script   []func() ([]HandLandmarks, error)
	calls    int
	startErr error
	started  bool
	closed   bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by every Detect call.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by every Detect call.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetStartError sets the error returned by Start.
func (m *MockDetector) SetStartError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startErr = err
}

// Script sets per-call results. Call n uses entry n; once the script is
// exhausted, Detect falls back to the SetHands/SetError behavior.
func (m *MockDetector) Script(steps ...func() ([]HandLandmarks, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = steps
	m.calls = 0
}

// Calls reports how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Started reports whether Start has been called successfully.
func (m *MockDetector) Started() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

// Closed reports whether Close has been called.
func (m *MockDetector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Start records the call and returns the configured start error, if any.
func (m *MockDetector) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.startErr != nil {
		return m.startErr
	}
	m.started = true
	return nil
}

// Detect returns the scripted or pre-configured hands/error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	call := m.calls
	m.calls++

	if call < len(m.script) {
		return m.script[call]()
	}

	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close records the call and returns nil.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// HandAt returns a HandLandmarks whose palm-base landmarks are centered
// near the given pixel position. Remaining landmarks spread outward from
// the palm so the fixture still looks like a plausible hand.
func HandAt(x, y float64) HandLandmarks {
	lm := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	// Palm base: wrist below center, knuckles fanned above it.
	lm.Points[Wrist] = Point3D{X: x, Y: y + 40}
	lm.Points[IndexMCP] = Point3D{X: x + 30, Y: y - 10}
	lm.Points[MiddleMCP] = Point3D{X: x + 10, Y: y - 20}
	lm.Points[RingMCP] = Point3D{X: x - 10, Y: y - 20}
	lm.Points[PinkyMCP] = Point3D{X: x - 30, Y: y + 10}

	// Finger joints extended upward from their base landmark.
	fingers := [][2]int{
		{ThumbCMC, Wrist},
		{IndexPIP, IndexMCP},
		{MiddlePIP, MiddleMCP},
		{RingPIP, RingMCP},
		{PinkyPIP, PinkyMCP},
	}
	for _, f := range fingers {
		base := lm.Points[f[1]]
		for j := 0; j < 3; j++ {
			lm.Points[f[0]+j] = Point3D{
				X: base.X,
				Y: base.Y - float64(j+1)*15,
			}
		}
	}
	lm.Points[ThumbTip] = Point3D{X: x + 15, Y: y - 15}

	return lm
}

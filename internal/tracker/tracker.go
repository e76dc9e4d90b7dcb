// Package tracker orchestrates webcam capture and hand pose estimation,
// reducing detected hands to simplified 2D palm positions delivered to a
// caller-supplied callback on a fixed cadence.
package tracker

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dragonknightbit/air-ball/internal/capture"
	"github.com/dragonknightbit/air-ball/internal/detector"
	"github.com/google/uuid"
)

// DefaultInterval is the poll cadence, approximating 30 Hz.
const DefaultInterval = 33 * time.Millisecond

// alertMessage is the fixed user-facing message for camera setup failure.
const alertMessage = "Could not access the camera. Hand tracking is unavailable."

// ErrNotReady is returned or logged when the tracker is used before a
// successful Setup.
var ErrNotReady = errors.New("tracker has not been set up")

// Position is a simplified 2D hand position in video-pixel coordinates.
// X is horizontally mirrored (width - palm center x) so that moving a hand
// left moves the position left on a front-facing display.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Callback receives the positions computed in one poll cycle, one entry
// per detected hand in estimator report order. It is called with an empty
// (never nil) slice when no hands are visible.
type Callback func(positions []Position)

// Surface is an optional display region the tracker resizes to the
// camera's actual dimensions during setup. The tracker never draws on it.
type Surface interface {
	Resize(width, height int)
}

// AlertFunc surfaces an unrecoverable setup failure to the user.
type AlertFunc func(msg string)

// Config holds the collaborators and tuning for a Tracker.
type Config struct {
	Camera   capture.Camera
	Detector detector.Detector

	// Surface, if set, is resized to the camera's actual dimensions.
	Surface Surface

	// Interval between poll cycles. Zero means DefaultInterval.
	Interval time.Duration

	// Alert, if set, is invoked with a fixed message when camera
	// acquisition fails during Setup.
	Alert AlertFunc
}

// Tracker owns the poll loop that turns camera frames into hand positions.
// A Tracker is built with New, prepared with Setup, and driven with
// Start/Stop. Multiple independent trackers can coexist.
type Tracker struct {
	id       string
	camera   capture.Camera
	det      detector.Detector
	surface  Surface
	interval time.Duration
	alert    AlertFunc

	mu       sync.Mutex
	callback Callback
	width    int
	height   int
	ready    bool
	stopCh   chan struct{}
}

// New creates a Tracker from the given configuration.
func New(cfg Config) *Tracker {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Tracker{
		id:       uuid.NewString(),
		camera:   cfg.Camera,
		det:      cfg.Detector,
		surface:  cfg.Surface,
		interval: interval,
		alert:    cfg.Alert,
	}
}

// ID returns the tracker's unique instance ID, used to tag log output.
func (t *Tracker) ID() string {
	return t.id
}

// Setup acquires the camera, resizes the optional surface to the camera's
// actual dimensions, starts the pose estimator, and stores the callback.
// Camera acquisition failure is the one user-surfaced error path: it is
// logged, reported through the alert func, and returned.
func (t *Tracker) Setup(cb Callback) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if cb == nil {
		return errors.New("tracker: nil callback")
	}
	if t.camera == nil || t.det == nil {
		return errors.New("tracker: camera and detector are required")
	}

	if err := t.camera.Open(); err != nil {
		log.Printf("tracker %s: camera open failed: %v", t.id, err)
		if t.alert != nil {
			t.alert(alertMessage)
		}
		return fmt.Errorf("open camera: %w", err)
	}

	// The device may not honor the requested resolution; everything
	// downstream (mirroring, surface size) uses what it actually reports.
	t.width, t.height = t.camera.Dimensions()
	if t.surface != nil {
		t.surface.Resize(t.width, t.height)
	}

	if err := t.det.Start(); err != nil {
		log.Printf("tracker %s: detector start failed: %v", t.id, err)
		t.camera.Close()
		return fmt.Errorf("start detector: %w", err)
	}

	t.callback = cb
	t.ready = true

	log.Printf("tracker %s: ready, camera %dx%d", t.id, t.width, t.height)
	return nil
}

// Start begins the poll loop. It logs and does nothing if Setup has not
// succeeded; calling Start on a running tracker is a no-op.
func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.ready {
		log.Printf("tracker %s: start refused: %v", t.id, ErrNotReady)
		return
	}
	if t.stopCh != nil {
		return
	}

	t.stopCh = make(chan struct{})
	go t.run(t.stopCh, t.callback, t.width)

	log.Printf("tracker %s: started", t.id)
}

// Stop halts the poll loop. The stop signal is checked both at iteration
// entry and immediately before callback delivery, so once Stop returns no
// further callback will begin.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopCh == nil {
		return
	}
	close(t.stopCh)
	t.stopCh = nil

	log.Printf("tracker %s: stopped", t.id)
}

// Running reports whether the poll loop is active.
func (t *Tracker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopCh != nil
}

// Dimensions returns the camera's actual width and height recorded during
// Setup.
func (t *Tracker) Dimensions() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width, t.height
}

// Close stops the loop and releases the camera and detector.
func (t *Tracker) Close() {
	t.Stop()

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.camera != nil {
		if err := t.camera.Close(); err != nil {
			log.Printf("tracker %s: error closing camera: %v", t.id, err)
		}
	}
	if t.det != nil {
		if err := t.det.Close(); err != nil {
			log.Printf("tracker %s: error closing detector: %v", t.id, err)
		}
	}
	t.ready = false
}

// run is the poll loop. Exactly one estimation call is in flight at a
// time: the ticker only fires the next cycle after the previous one
// finished.
func (t *Tracker) run(stop chan struct{}, cb Callback, width int) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.poll(stop, cb, width)
		}
	}
}

// poll runs one estimate-reduce-deliver cycle. Frame or estimation errors
// are logged and the cycle delivers nothing; the loop keeps going.
func (t *Tracker) poll(stop chan struct{}, cb Callback, width int) {
	frame, err := t.camera.ReadFrame()
	if err != nil {
		log.Printf("tracker %s: error reading frame: %v", t.id, err)
		return
	}

	hands, err := t.det.Detect(frame)
	frame.Close()
	if err != nil {
		log.Printf("tracker %s: error estimating hands: %v", t.id, err)
		return
	}

	positions := make([]Position, 0, len(hands))
	for i := range hands {
		x, y := hands[i].PalmCenter()
		positions = append(positions, Position{
			X: float64(width) - x,
			Y: y,
		})
	}

	// Stop may have been called while the estimate was in flight; a
	// stopped tracker must not deliver.
	select {
	case <-stop:
		return
	default:
	}

	cb(positions)
}

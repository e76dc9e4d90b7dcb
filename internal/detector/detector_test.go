package detector

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

func TestPalmCenter(t *testing.T) {
	t.Run("mean of the five palm-base landmarks", func(t *testing.T) {
		hand := HandLandmarks{}
		hand.Points[Wrist] = Point3D{X: 10, Y: 20}
		hand.Points[IndexMCP] = Point3D{X: 12, Y: 22}
		hand.Points[MiddleMCP] = Point3D{X: 14, Y: 18}
		hand.Points[RingMCP] = Point3D{X: 16, Y: 24}
		hand.Points[PinkyMCP] = Point3D{X: 18, Y: 16}

		x, y := hand.PalmCenter()

		if math.Abs(x-14) > epsilon {
			t.Errorf("palm center x = %f, want 14", x)
		}
		if math.Abs(y-20) > epsilon {
			t.Errorf("palm center y = %f, want 20", y)
		}
	})

	t.Run("ignores non-palm landmarks", func(t *testing.T) {
		hand := HandLandmarks{}
		for i := 0; i < NumLandmarks; i++ {
			hand.Points[i] = Point3D{X: 1000, Y: 1000}
		}
		for _, idx := range PalmBase {
			hand.Points[idx] = Point3D{X: 50, Y: 60}
		}

		x, y := hand.PalmCenter()

		if math.Abs(x-50) > epsilon || math.Abs(y-60) > epsilon {
			t.Errorf("palm center = (%f, %f), want (50, 60)", x, y)
		}
	})

	t.Run("zero-value hand yields origin", func(t *testing.T) {
		hand := HandLandmarks{}

		x, y := hand.PalmCenter()

		if x != 0 || y != 0 {
			t.Errorf("palm center = (%f, %f), want (0, 0)", x, y)
		}
	})
}

func TestPalmBaseIndices(t *testing.T) {
	want := [5]int{0, 5, 9, 13, 17}
	if PalmBase != want {
		t.Errorf("PalmBase = %v, want %v", PalmBase, want)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MaxHands != 2 {
		t.Errorf("MaxHands = %d, want 2", cfg.MaxHands)
	}
	if cfg.Model != ModelFull {
		t.Errorf("Model = %q, want %q", cfg.Model, ModelFull)
	}
	if cfg.Runtime != "mediapipe" {
		t.Errorf("Runtime = %q, want mediapipe", cfg.Runtime)
	}
}

func TestMockDetector(t *testing.T) {
	t.Run("returns empty hands by default", func(t *testing.T) {
		mock := NewMockDetector()

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if hands != nil {
			t.Errorf("expected nil hands, got %v", hands)
		}
	})

	t.Run("returns configured hands", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetHands([]HandLandmarks{HandAt(100, 200), HandAt(400, 250)})

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(hands) != 2 {
			t.Errorf("expected 2 hands, got %d", len(hands))
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()
		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		hands, err := mock.Detect(nil)

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if hands != nil {
			t.Errorf("expected nil hands when error is set, got %v", hands)
		}
	})

	t.Run("scripted calls run in order then fall back", func(t *testing.T) {
		mock := NewMockDetector()
		scriptErr := errors.New("transient")
		mock.Script(
			func() ([]HandLandmarks, error) { return nil, scriptErr },
			func() ([]HandLandmarks, error) { return []HandLandmarks{HandAt(10, 10)}, nil },
		)
		mock.SetHands([]HandLandmarks{})

		if _, err := mock.Detect(nil); err != scriptErr {
			t.Errorf("call 1: expected scripted error, got %v", err)
		}

		hands, err := mock.Detect(nil)
		if err != nil || len(hands) != 1 {
			t.Errorf("call 2: expected 1 scripted hand, got %d hands, err %v", len(hands), err)
		}

		hands, err = mock.Detect(nil)
		if err != nil || len(hands) != 0 {
			t.Errorf("call 3: expected fallback empty hands, got %d hands, err %v", len(hands), err)
		}

		if mock.Calls() != 3 {
			t.Errorf("Calls() = %d, want 3", mock.Calls())
		}
	})

	t.Run("Start and Close are recorded", func(t *testing.T) {
		mock := NewMockDetector()

		if err := mock.Start(); err != nil {
			t.Errorf("Start() failed: %v", err)
		}
		if !mock.Started() {
			t.Error("Started() should be true after Start()")
		}

		if err := mock.Close(); err != nil {
			t.Errorf("Close() failed: %v", err)
		}
		if !mock.Closed() {
			t.Error("Closed() should be true after Close()")
		}
	})

	t.Run("Start error is returned and not recorded as started", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetStartError(errors.New("model missing"))

		if err := mock.Start(); err == nil {
			t.Error("Start() should fail with configured error")
		}
		if mock.Started() {
			t.Error("Started() should be false after failed Start()")
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
	})
}

func TestHandAt(t *testing.T) {
	hand := HandAt(320, 240)

	t.Run("palm center lands near the requested position", func(t *testing.T) {
		x, y := hand.PalmCenter()

		// The fixture fans landmarks around the target, so allow slack.
		if math.Abs(x-320) > 5 {
			t.Errorf("palm center x = %f, want near 320", x)
		}
		if math.Abs(y-240) > 5 {
			t.Errorf("palm center y = %f, want near 240", y)
		}
	})

	t.Run("has plausible handedness and score", func(t *testing.T) {
		if hand.Handedness != "Right" {
			t.Errorf("handedness = %q, want Right", hand.Handedness)
		}
		if hand.Score < 0.9 {
			t.Errorf("score = %f, want >= 0.9", hand.Score)
		}
	})

	t.Run("fingers extend above their knuckles", func(t *testing.T) {
		if hand.Points[IndexTip].Y >= hand.Points[IndexMCP].Y {
			t.Error("index tip should be above index MCP (lower Y)")
		}
		if hand.Points[PinkyTip].Y >= hand.Points[PinkyMCP].Y {
			t.Error("pinky tip should be above pinky MCP (lower Y)")
		}
	})
}

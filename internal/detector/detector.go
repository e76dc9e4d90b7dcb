package detector

import "gocv.io/x/gocv"

// Model fidelity variants understood by the estimation backend.
const (
	ModelFull = "full"
	ModelLite = "lite"
)

// Detector defines the interface for hand pose estimation backends.
type Detector interface {
	// Start initializes the backend (loads the model, spawns the service).
	// It must be called before Detect and may block while the estimator
	// warms up.
	Start() error

	// Detect analyzes a video frame and returns detected hand landmarks
	// in the order the estimator reports them. Returns an empty slice if
	// no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand pose estimation.
// The configuration is fixed once the detector is started.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 2).
	MaxHands int

	// Model selects the estimation fidelity variant (default: ModelFull).
	Model string

	// Runtime names the external estimation runtime (default: "mediapipe").
	Runtime string

	// AssetDir is the directory holding the solution assets and the
	// estimation service script. Empty means search the usual locations.
	AssetDir string
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands: 2,
		Model:    ModelFull,
		Runtime:  "mediapipe",
	}
}

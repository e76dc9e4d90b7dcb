// Package detector provides hand pose estimation interfaces and landmark types.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// PalmBase is the set of landmark indices approximating the center of the
// palm: the wrist plus the four finger knuckles. Their centroid is a stable
// proxy for overall hand position.
var PalmBase = [5]int{Wrist, IndexMCP, MiddleMCP, RingMCP, PinkyMCP}

// Point3D represents an estimated point in video-pixel coordinates,
// with z carrying the estimator's relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks for one detected hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// PalmCenter returns the arithmetic mean of the palm-base landmarks'
// x and y coordinates.
func (h *HandLandmarks) PalmCenter() (x, y float64) {
	for _, idx := range PalmBase {
		x += h.Points[idx].X
		y += h.Points[idx].Y
	}
	n := float64(len(PalmBase))
	return x / n, y / n
}

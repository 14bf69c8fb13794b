package heading

import (
	"math"
)

// Heading is the canonical magnetic heading representation for the app.
type Heading struct {
	Degrees float64 `json:"degrees"` // 0..360, 0 = magnetic north
	Time    string  `json:"time"`    // RFC3339
}

// Source is anything that can provide headings over time.
// Later you'll have: mock source, magnetometer source, maybe a replay
// source from file, etc.
type Source interface {
	Next() (Heading, error)
}

// FromField computes the heading in degrees from the horizontal field
// components, applying declinationDeg to convert magnetic to true north.
// Assumes the sensor lies flat with X pointing forward and Z up; no tilt
// compensation.
//
//	heading = atan2(my, mx)
func FromField(mxMG, myMG, declinationDeg float64) float64 {
	deg := math.Atan2(myMG, mxMG)*180.0/math.Pi + declinationDeg
	deg = math.Mod(deg, 360.0)
	if deg < 0 {
		deg += 360.0
	}
	return deg
}

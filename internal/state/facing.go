package state

import "math"

// The client animates sixteen compass directions, encoded as zero-padded
// degree strings. "000" is north; angles grow clockwise.
var facingKeys = [16]string{
	"000", "022", "045", "067", "090", "112", "135", "157",
	"180", "202", "225", "247", "270", "292", "315", "337",
}

var facingDegrees = [16]float64{
	0, 22, 45, 67, 90, 112, 135, 157,
	180, 202, 225, 247, 270, 292, 315, 337,
}

const DefaultFacing = "000"

// FacingFromVector quantizes a movement vector to the nearest of the sixteen
// compass keys. Screen Y grows downward, so the vector is rotated to put
// "000" at north before matching.
func FacingFromVector(dx, dy float64) string {
	if dx == 0 && dy == 0 {
		return DefaultFacing
	}

	angle := math.Atan2(dy, dx)*180/math.Pi + 90
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}

	best := 0
	bestDiff := 360.0
	for i, deg := range facingDegrees {
		diff := math.Abs(deg - angle)
		if wrapped := 360 - diff; wrapped < diff {
			diff = wrapped
		}
		if diff < bestDiff {
			bestDiff = diff
			best = i
		}
	}
	return facingKeys[best]
}

// ValidFacing reports whether the client-supplied facing key is one of the
// sixteen known values.
func ValidFacing(key string) bool {
	for _, k := range facingKeys {
		if k == key {
			return true
		}
	}
	return false
}

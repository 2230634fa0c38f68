package lighting

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// SunDirection converts an azimuth around Y (0-360) and an elevation above
// the horizon (0-90), both in degrees, to the direction the light travels.
func SunDirection(azimuth, elevation float32) mgl32.Vec3 {
	az := float64(mgl32.DegToRad(azimuth))
	el := float64(mgl32.DegToRad(elevation))

	towardSun := mgl32.Vec3{
		float32(gomath.Cos(el) * gomath.Sin(az)),
		float32(gomath.Sin(el)),
		float32(gomath.Cos(el) * gomath.Cos(az)),
	}
	return towardSun.Mul(-1)
}

// SunAngles is the inverse of SunDirection. A zero vector yields zero angles.
func SunAngles(direction mgl32.Vec3) (azimuth, elevation float32) {
	if direction.Len() == 0 {
		return 0, 0
	}
	toward := direction.Normalize().Mul(-1)
	el := gomath.Asin(float64(mgl32.Clamp(toward[1], -1, 1)))
	az := gomath.Atan2(float64(toward[0]), float64(toward[2]))
	if az < 0 {
		az += 2 * gomath.Pi
	}
	return mgl32.RadToDeg(float32(az)), mgl32.RadToDeg(float32(el))
}

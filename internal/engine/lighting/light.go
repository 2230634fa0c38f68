// Package lighting holds the light sources the lit shaders read and uploads
// them as uniform structs.
package lighting

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// UniformSetter is the part of a shader program lights write to.
type UniformSetter interface {
	SetVec3(name string, v mgl32.Vec3)
	SetFloat(name string, v float32)
}

// Light is anything that can upload itself.
type Light interface {
	Apply(s UniformSetter)
}

// Base carries the color terms shared by every light. Uniform is the name
// of the struct uniform in the shader, e.g. "u_dirLight".
type Base struct {
	Uniform  string
	Ambient  mgl32.Vec3
	Diffuse  mgl32.Vec3
	Specular mgl32.Vec3
}

func (b *Base) apply(s UniformSetter) {
	s.SetVec3(b.Uniform+".ambient", b.Ambient)
	s.SetVec3(b.Uniform+".diffuse", b.Diffuse)
	s.SetVec3(b.Uniform+".specular", b.Specular)
}

// Attenuation is the constant/linear/quadratic distance falloff.
type Attenuation struct {
	Constant  float32
	Linear    float32
	Quadratic float32
}

// NoAttenuation keeps full intensity at any distance.
var NoAttenuation = Attenuation{Constant: 1}

func (a Attenuation) upload(uniform string, s UniformSetter) {
	s.SetFloat(uniform+".attConstant", a.Constant)
	s.SetFloat(uniform+".attLinear", a.Linear)
	s.SetFloat(uniform+".attQuadratic", a.Quadratic)
}

// Directional is a light infinitely far away, like the sun.
type Directional struct {
	Base
	Direction mgl32.Vec3
}

// NewDirectional returns a black light pointing straight down.
func NewDirectional(uniform string) *Directional {
	return &Directional{
		Base:      Base{Uniform: uniform},
		Direction: mgl32.Vec3{0, -1, 0},
	}
}

func (d *Directional) Apply(s UniformSetter) {
	d.apply(s)
	s.SetVec3(d.Uniform+".direction", d.Direction)
}

// Point radiates in every direction from Position.
type Point struct {
	Base
	Position mgl32.Vec3
	Attenuation
}

// NewPoint returns a black, unattenuated point light at the origin.
func NewPoint(uniform string) *Point {
	return &Point{Base: Base{Uniform: uniform}, Attenuation: NoAttenuation}
}

func (p *Point) Apply(s UniformSetter) {
	p.apply(s)
	s.SetVec3(p.Uniform+".position", p.Position)
	p.Attenuation.upload(p.Uniform, s)
}

// Default spot cone, in degrees.
const (
	DefaultInnerCutoff = 15
	DefaultOuterCutoff = 17
)

// Spot is a cone of light. Cutoffs are half-angles in degrees; the shader
// receives their cosines.
type Spot struct {
	Base
	Position    mgl32.Vec3
	Direction   mgl32.Vec3
	InnerCutoff float32
	OuterCutoff float32
	Attenuation
}

// NewSpot returns a black spot light at the origin pointing down.
func NewSpot(uniform string) *Spot {
	return &Spot{
		Base:        Base{Uniform: uniform},
		Direction:   mgl32.Vec3{0, -1, 0},
		InnerCutoff: DefaultInnerCutoff,
		OuterCutoff: DefaultOuterCutoff,
		Attenuation: NoAttenuation,
	}
}

func (l *Spot) Apply(s UniformSetter) {
	l.apply(s)
	s.SetVec3(l.Uniform+".position", l.Position)
	s.SetVec3(l.Uniform+".direction", l.Direction)
	s.SetFloat(l.Uniform+".innerCutoff", cosDeg(l.InnerCutoff))
	s.SetFloat(l.Uniform+".outerCutoff", cosDeg(l.OuterCutoff))
	l.Attenuation.upload(l.Uniform, s)
}

// FollowCamera places the spot at the eye, pointing where it looks.
func (l *Spot) FollowCamera(position, front mgl32.Vec3) {
	l.Position = position
	l.Direction = front
}

func cosDeg(deg float32) float32 {
	return float32(gomath.Cos(float64(mgl32.DegToRad(deg))))
}

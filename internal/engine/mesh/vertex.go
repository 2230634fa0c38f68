// Package mesh uploads vertex data to the GPU and groups it into submeshes
// that render as one draw call each.
package mesh

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/notanengine/internal/engine/gpu"
)

// Vertex is the interleaved layout used by imported models and primitives.
type Vertex struct {
	Position  mgl32.Vec3
	Normal    mgl32.Vec3
	TexCoords mgl32.Vec2
}

const (
	vertexFloats = 8
	vertexStride = vertexFloats * 4
)

// DefaultLayout describes Vertex: position at 0, normal at 1, uv at 2.
var DefaultLayout = []gpu.VertexAttrib{
	{Location: 0, Components: 3, Stride: vertexStride, Offset: 0},
	{Location: 1, Components: 3, Stride: vertexStride, Offset: 3 * 4},
	{Location: 2, Components: 2, Stride: vertexStride, Offset: 6 * 4},
}

// Flatten interleaves vertices into the float layout DefaultLayout reads.
func Flatten(vertices []Vertex) []float32 {
	out := make([]float32, 0, len(vertices)*vertexFloats)
	for _, v := range vertices {
		out = append(out,
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.TexCoords[0], v.TexCoords[1],
		)
	}
	return out
}

// FaceNormal returns the unit normal of the counter-clockwise triangle
// a, b, c. ok is false for degenerate triangles.
func FaceNormal(a, b, c mgl32.Vec3) (n mgl32.Vec3, ok bool) {
	n = b.Sub(a).Cross(c.Sub(a))
	l := n.Len()
	if l < 1e-6 {
		return mgl32.Vec3{}, false
	}
	return n.Mul(1 / l), true
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// BoundsOf returns the box around every vertex position. Empty input gives
// the zero box.
func BoundsOf(vertices []Vertex) Bounds {
	if len(vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: vertices[0].Position, Max: vertices[0].Position}
	for _, v := range vertices[1:] {
		b.Extend(v.Position)
	}
	return b
}

// Extend grows the box to include p.
func (b *Bounds) Extend(p mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// Center is the midpoint of the box.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size is the extent of the box along each axis.
func (b Bounds) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

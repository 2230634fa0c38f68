package assets

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/g3n/engine/loader/obj"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/notanengine/internal/engine/material"
	"github.com/Faultbox/notanengine/internal/engine/mesh"
	"github.com/Faultbox/notanengine/internal/engine/texture"
)

// DefaultModelShininess is used for imported materials without Ns.
const DefaultModelShininess = 20

// ErrModelIndex is returned for a face that points past the decoded vertex data.
var ErrModelIndex = errors.New("model index out of range")

// LoadModel imports an OBJ file, with its MTL libraries, as one submesh per
// object and material. Failures are logged and yield an empty mesh.
func (m *Manager) LoadModel(path string) *mesh.StaticMesh {
	out := mesh.NewStatic(path)

	full, err := m.Resolve(path)
	if err != nil {
		m.log.Error("model not found", zap.String("path", path), zap.Error(err))
		return out
	}
	data, err := os.ReadFile(full)
	if err != nil {
		m.log.Error("model failed to load", zap.String("path", path), zap.Error(err))
		return out
	}

	dir := filepath.Dir(full)
	lib := m.materialLibrary(dir, data)
	dec, err := obj.DecodeReader(bytes.NewReader(data), bytes.NewReader(lib))
	if err != nil {
		m.log.Error("model failed to load", zap.String("path", path), zap.Error(err))
		return out
	}
	for _, w := range dec.Warnings {
		m.log.Debug("obj warning", zap.String("path", path), zap.String("warning", w))
	}

	// Triangulate everything before uploading so a bad face leaves no GPU
	// objects behind.
	var groups []*modelGroup
	for i := range dec.Objects {
		g, err := buildObject(dec, &dec.Objects[i])
		if err != nil {
			m.log.Error("model failed to load", zap.String("path", path), zap.Error(err))
			return out
		}
		groups = append(groups, g...)
	}

	specular := specularMaps(lib)
	var bounds mesh.Bounds
	first := true
	for _, g := range groups {
		if len(g.indices) == 0 {
			continue
		}
		mat := m.buildMaterial(dir, dec.Materials[g.material], specular[g.material])
		out.Add(mesh.FromVertices(m.api, g.vertices, g.indices, mat))

		b := mesh.BoundsOf(g.vertices)
		if first {
			bounds, first = b, false
		} else {
			bounds.Extend(b.Min)
			bounds.Extend(b.Max)
		}
	}
	out.Bounds = bounds

	m.log.Info("model loaded",
		zap.String("path", path),
		zap.Int("submeshes", len(out.Submeshes)),
		zap.Int("triangles", out.Triangles()))
	return m.Own(out)
}

// materialLibrary concatenates every mtllib named by the model. Libraries
// are looked up next to the model first, then anywhere under the root.
func (m *Manager) materialLibrary(dir string, objData []byte) []byte {
	var lib bytes.Buffer
	eachLine(objData, func(fields []string) {
		if fields[0] != "mtllib" {
			return
		}
		for _, name := range fields[1:] {
			p := filepath.Join(dir, normalize(name))
			if !isFile(p) {
				found, err := m.Find(name)
				if err != nil {
					m.log.Warn("material library not found", zap.String("mtllib", name), zap.Error(err))
					continue
				}
				p = found
			}
			data, err := os.ReadFile(p)
			if err != nil {
				m.log.Warn("material library failed to load", zap.String("mtllib", name), zap.Error(err))
				continue
			}
			lib.Write(data)
			lib.WriteByte('\n')
		}
	})
	return lib.Bytes()
}

// specularMaps maps material names to their map_Ks file. The OBJ decoder
// keeps only the diffuse map.
func specularMaps(mtl []byte) map[string]string {
	maps := make(map[string]string)
	current := ""
	eachLine(mtl, func(fields []string) {
		switch fields[0] {
		case "newmtl":
			if len(fields) > 1 {
				current = fields[1]
			}
		case "map_Ks":
			// Options come first; the file name is last.
			if current != "" && len(fields) > 1 {
				maps[current] = fields[len(fields)-1]
			}
		}
	})
	return maps
}

func eachLine(data []byte, fn func(fields []string)) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		fn(fields)
	}
}

// buildMaterial turns a decoded MTL entry into a material, loading its maps
// through the texture cache. Maps that fail to load are left out.
func (m *Manager) buildMaterial(dir string, src *obj.Material, specularMap string) *material.Material {
	mat := material.New()
	mat.Shininess = DefaultModelShininess
	if src == nil {
		return mat
	}
	if src.Shininess > 0 {
		mat.Shininess = src.Shininess
	}
	if t := m.modelTexture(dir, src.MapKd); t != nil {
		mat.DiffuseMaps = append(mat.DiffuseMaps, t)
	}
	if t := m.modelTexture(dir, specularMap); t != nil {
		mat.SpecularMaps = append(mat.SpecularMaps, t)
	}
	return mat
}

func (m *Manager) modelTexture(dir, name string) *texture.Texture {
	if name == "" {
		return nil
	}
	// Textures below the root are keyed by their root-relative path.
	p := filepath.Join(dir, normalize(name))
	if m.root != "" {
		if rel, err := filepath.Rel(m.root, p); err == nil && !strings.HasPrefix(rel, "..") {
			p = rel
		}
	}
	t := m.loadTexture(p, false)
	if !t.Valid() {
		return nil
	}
	return t
}

// modelGroup is the triangulated geometry of one material within an object.
type modelGroup struct {
	material string
	vertices []mesh.Vertex
	indices  []uint32
	shared   map[corner]uint32
}

// corner is one face vertex as position, uv and normal indices; -1 means
// the face did not give one.
type corner struct {
	position, uv, normal int
}

// buildObject splits an object's faces by material, in order of first use.
func buildObject(dec *obj.Decoder, o *obj.Object) ([]*modelGroup, error) {
	var groups []*modelGroup
	byMaterial := make(map[string]*modelGroup)
	for i := range o.Faces {
		f := &o.Faces[i]
		g := byMaterial[f.Material]
		if g == nil {
			g = &modelGroup{material: f.Material, shared: make(map[corner]uint32)}
			byMaterial[f.Material] = g
			groups = append(groups, g)
		}
		if err := g.addFace(dec, f); err != nil {
			return nil, fmt.Errorf("object %s: %w", o.Name, err)
		}
	}
	return groups, nil
}

// addFace fans the polygon into triangles. Vertices that share position, uv
// and normal are merged; triangles without normals get a flat normal and
// their own vertices. V is flipped for OpenGL's bottom-left origin.
func (g *modelGroup) addFace(dec *obj.Decoder, f *obj.Face) error {
	corners := make([]corner, len(f.Vertices))
	for i, v := range f.Vertices {
		if !inRange(v, len(dec.Vertices)/3) {
			return fmt.Errorf("%w: vertex %d", ErrModelIndex, v+1)
		}
		c := corner{position: v, uv: -1, normal: -1}
		if i < len(f.Uvs) && inRange(f.Uvs[i], len(dec.Uvs)/2) {
			c.uv = f.Uvs[i]
		}
		if i < len(f.Normals) && inRange(f.Normals[i], len(dec.Normals)/3) {
			c.normal = f.Normals[i]
		}
		corners[i] = c
	}

	for i := 1; i+1 < len(corners); i++ {
		g.addTriangle(dec, [3]corner{corners[0], corners[i], corners[i+1]})
	}
	return nil
}

func (g *modelGroup) addTriangle(dec *obj.Decoder, tri [3]corner) {
	if tri[0].normal >= 0 && tri[1].normal >= 0 && tri[2].normal >= 0 {
		for _, c := range tri {
			idx, ok := g.shared[c]
			if !ok {
				idx = uint32(len(g.vertices))
				g.vertices = append(g.vertices, mesh.Vertex{
					Position:  vec3At(dec.Vertices, c.position),
					Normal:    vec3At(dec.Normals, c.normal),
					TexCoords: uvAt(dec.Uvs, c.uv),
				})
				g.shared[c] = idx
			}
			g.indices = append(g.indices, idx)
		}
		return
	}

	var pos [3]mgl32.Vec3
	for i, c := range tri {
		pos[i] = vec3At(dec.Vertices, c.position)
	}
	n, ok := mesh.FaceNormal(pos[0], pos[1], pos[2])
	if !ok {
		return
	}
	for i, c := range tri {
		g.indices = append(g.indices, uint32(len(g.vertices)))
		g.vertices = append(g.vertices, mesh.Vertex{Position: pos[i], Normal: n, TexCoords: uvAt(dec.Uvs, c.uv)})
	}
}

func inRange(i, n int) bool { return i >= 0 && i < n }

func vec3At(a []float32, i int) mgl32.Vec3 {
	return mgl32.Vec3{a[3*i], a[3*i+1], a[3*i+2]}
}

func uvAt(a []float32, i int) mgl32.Vec2 {
	if i < 0 {
		return mgl32.Vec2{}
	}
	return mgl32.Vec2{a[2*i], 1 - a[2*i+1]}
}

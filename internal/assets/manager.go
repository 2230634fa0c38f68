// Package assets finds, loads and owns the engine's GPU resources: shader
// programs, textures and imported models.
//
// The Manager is the single owner of everything it hands out. Materials,
// meshes and entities only hold references; Release frees each GPU object
// once.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kamstrup/intmap"
	"go.uber.org/zap"

	"github.com/Faultbox/notanengine/internal/engine/gpu"
	"github.com/Faultbox/notanengine/internal/engine/mesh"
	"github.com/Faultbox/notanengine/internal/engine/shader"
	"github.com/Faultbox/notanengine/internal/engine/shader/builtin"
	"github.com/Faultbox/notanengine/internal/engine/texture"
)

// Options configures a Manager.
type Options struct {
	// Root is the assets folder. Empty disables file lookups; built-in
	// shaders still load.
	Root string
	// FlipTextures reverses image rows on load for textures requested
	// through LoadTexture. Model textures are never flipped; their V
	// coordinate is flipped instead.
	FlipTextures bool
	Logger       *zap.Logger
}

// Manager loads assets from a root folder and caches them by path.
type Manager struct {
	api  gpu.API
	root string
	flip bool
	log  *zap.Logger

	files    map[string]string
	textures *Cache[*texture.Texture]
	handles  *intmap.Map[uint32, *texture.Texture]
	programs map[string]*shader.Program
	meshes   []*mesh.StaticMesh
}

// NewManager creates a manager drawing GPU objects from api.
func NewManager(api gpu.API, opts Options) *Manager {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		api:      api,
		root:     opts.Root,
		flip:     opts.FlipTextures,
		log:      log,
		textures: NewCache[*texture.Texture](),
		handles:  intmap.New[uint32, *texture.Texture](64),
		programs: make(map[string]*shader.Program),
	}
}

// Root returns the assets folder.
func (m *Manager) Root() string { return m.root }

// Find returns the path of the first file named like name's base name
// anywhere under the root.
func (m *Manager) Find(name string) (string, error) {
	if m.root == "" {
		return "", fmt.Errorf("%w: %s (no assets root)", ErrNotFound, name)
	}
	if m.files == nil {
		index, err := indexFiles(m.root)
		if err != nil {
			return "", fmt.Errorf("indexing %s: %w", m.root, err)
		}
		m.files = index
	}
	base := filepath.Base(normalize(name))
	if p, ok := m.files[base]; ok {
		return p, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Resolve maps a request to a file on disk: an existing absolute path, a
// path relative to the root, or else a search by file name.
func (m *Manager) Resolve(name string) (string, error) {
	p := normalize(name)
	if filepath.IsAbs(p) && isFile(p) {
		return p, nil
	}
	if m.root != "" {
		if full := filepath.Join(m.root, p); isFile(full) {
			return full, nil
		}
	}
	return m.Find(p)
}

// ShaderSources returns the GLSL sources for name, from <name>.vert and
// <name>.frag under the root or, failing that, from the built-in set.
func (m *Manager) ShaderSources(name string) (vertex, fragment string, err error) {
	vp, verr := m.Find(name + ".vert")
	fp, ferr := m.Find(name + ".frag")
	if verr == nil && ferr == nil {
		vs, err := os.ReadFile(vp)
		if err != nil {
			return "", "", fmt.Errorf("reading vertex shader: %w", err)
		}
		fs, err := os.ReadFile(fp)
		if err != nil {
			return "", "", fmt.Errorf("reading fragment shader: %w", err)
		}
		return string(vs), string(fs), nil
	}

	if vs, fs, ok := builtin.Source(name); ok {
		return vs, fs, nil
	}
	return "", "", fmt.Errorf("%w: shader %s", ErrNotFound, name)
}

// LoadShader builds the named program once and caches it. Compile errors
// are logged by the shader package; the program is returned regardless.
// An unknown name yields nil.
func (m *Manager) LoadShader(name string) (*shader.Program, error) {
	if p, ok := m.programs[name]; ok {
		return p, nil
	}
	vs, fs, err := m.ShaderSources(name)
	if err != nil {
		m.log.Error("shader sources not found", zap.String("shader", name), zap.Error(err))
		return nil, err
	}
	p, err := shader.Compile(m.api, name, vs, fs, shader.WithLogger(m.log.Named("shader")))
	m.programs[name] = p
	return p, err
}

// ReloadShader recompiles a loaded program from its current sources.
func (m *Manager) ReloadShader(name string) error {
	p, ok := m.programs[name]
	if !ok {
		return fmt.Errorf("%w: shader %s not loaded", ErrNotFound, name)
	}
	vs, fs, err := m.ShaderSources(name)
	if err != nil {
		return err
	}
	return p.Reload(vs, fs)
}

// ShaderDirs lists the folders holding shader files of loaded programs.
func (m *Manager) ShaderDirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	for name := range m.programs {
		for _, ext := range []string{".vert", ".frag"} {
			p, err := m.Find(name + ext)
			if err != nil {
				continue
			}
			if d := filepath.Dir(p); !seen[d] {
				seen[d] = true
				dirs = append(dirs, d)
			}
		}
	}
	return dirs
}

// LoadTexture loads the image at path once. Later calls with the same path
// return the same texture. A texture that fails to load is logged, cached
// and returned with ID 0.
func (m *Manager) LoadTexture(path string) *texture.Texture {
	return m.loadTexture(path, m.flip)
}

func (m *Manager) loadTexture(path string, flip bool) *texture.Texture {
	key := filepath.ToSlash(normalize(path))
	if t, ok := m.textures.Get(key); ok {
		return t
	}

	t, err := m.decodeTexture(key, flip)
	if err != nil {
		m.log.Error("texture failed to load", zap.String("path", path), zap.Error(err))
	} else {
		m.log.Debug("texture loaded",
			zap.String("path", key),
			zap.Int("width", t.Width),
			zap.Int("height", t.Height),
			zap.Stringer("format", t.Format))
	}

	t = m.textures.Set(key, t)
	if t.Valid() {
		m.handles.Put(t.ID, t)
	}
	return t
}

func (m *Manager) decodeTexture(key string, flip bool) (*texture.Texture, error) {
	full, err := m.Resolve(key)
	if err != nil {
		return texture.Upload(m.api, key, nil), err
	}
	f, err := os.Open(full)
	if err != nil {
		return texture.Upload(m.api, key, nil), err
	}
	defer f.Close()

	px, err := texture.Decode(f, full, flip)
	if err != nil {
		return texture.Upload(m.api, key, nil), err
	}
	return texture.Upload(m.api, key, px), nil
}

// TextureStats returns texture cache hits and misses.
func (m *Manager) TextureStats() (hits, misses int) { return m.textures.Stats() }

// TextureCount returns the number of live GPU textures.
func (m *Manager) TextureCount() int { return m.handles.Len() }

// Release frees every texture, mesh and program the manager created.
func (m *Manager) Release() {
	m.handles.ForEach(func(id uint32, _ *texture.Texture) bool {
		m.api.DeleteTexture(id)
		return true
	})
	m.handles.Clear()
	m.textures.Clear()

	for _, sm := range m.meshes {
		sm.Release(m.api)
	}
	m.meshes = nil

	for _, p := range m.programs {
		p.Delete()
	}
	clear(m.programs)

	m.log.Info("assets released")
}

// Own hands a mesh created outside the manager over for release.
func (m *Manager) Own(sm *mesh.StaticMesh) *mesh.StaticMesh {
	if sm != nil {
		m.meshes = append(m.meshes, sm)
	}
	return sm
}

func hasExt(name string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

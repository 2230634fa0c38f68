// Package builtin embeds the engine's stock GLSL programs. They are used
// when an assets directory does not override them.
package builtin

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed *.vert *.frag
var files embed.FS

// Program names shipped with the engine.
const (
	Basic          = "basic"
	EntityLighting = "entity_lighting"
	StencilOutline = "stencil_outline"
)

// Source returns the vertex and fragment source of a built-in program.
func Source(name string) (vertex, fragment string, ok bool) {
	v, err := files.ReadFile(name + ".vert")
	if err != nil {
		return "", "", false
	}
	f, err := files.ReadFile(name + ".frag")
	if err != nil {
		return "", "", false
	}
	return string(v), string(f), true
}

// Names lists the built-in programs in lexical order.
func Names() []string {
	entries, _ := fs.ReadDir(files, ".")
	var names []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".vert"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DirName is the folder Locate looks for.
const DirName = "assets"

// ErrNotFound is returned when an asset or the assets folder cannot be found.
var ErrNotFound = errors.New("asset not found")

// Locate walks up from start looking for an assets folder, either directly
// inside each ancestor or inside one of its immediate subdirectories.
func Locate(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		if p := filepath.Join(dir, DirName); isDir(p) {
			return p, nil
		}
		if entries, err := os.ReadDir(dir); err == nil {
			for _, e := range entries {
				if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
					continue
				}
				if p := filepath.Join(dir, e.Name(), DirName); isDir(p) {
					return p, nil
				}
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: no %s folder above %s", ErrNotFound, DirName, start)
		}
		dir = parent
	}
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// normalize turns Windows separators into forward slashes and cleans the path.
func normalize(p string) string {
	return filepath.Clean(filepath.FromSlash(strings.ReplaceAll(p, "\\", "/")))
}

// indexFiles maps every file name under root to its first path in lexical
// walk order.
func indexFiles(root string) (map[string]string, error) {
	index := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := index[d.Name()]; !ok {
			index[d.Name()] = path
		}
		return nil
	})
	return index, err
}

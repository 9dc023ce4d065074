// Package discover finds Thrift interface files in a directory tree.
package discover

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// File is a discovered .thrift file.
type File struct {
	Path string // path as found under the root
	Rel  string // slash-separated path relative to the root
	Name string // module name, the file stem
}

// Find walks dir and returns every .thrift file, sorted by relative path.
func Find(dir string) ([]File, error) {
	var files []File
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".thrift" {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, File{
			Path: path,
			Rel:  filepath.ToSlash(rel),
			Name: strings.TrimSuffix(d.Name(), ".thrift"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Rel < files[j].Rel })
	return files, nil
}

// SelectFile picks one file by module name. With an empty name the single
// discovered file is returned; zero or several files is an error.
func SelectFile(files []File, name string) (*File, error) {
	if name != "" {
		for i := range files {
			if files[i].Name == name || files[i].Rel == name {
				return &files[i], nil
			}
		}
		return nil, fmt.Errorf("thrift file %q not found", name)
	}

	switch len(files) {
	case 0:
		return nil, fmt.Errorf("no .thrift files found")
	case 1:
		return &files[0], nil
	default:
		msg := "multiple thrift files found:\n"
		for _, f := range files {
			msg += fmt.Sprintf("  - %s\n", f.Rel)
		}
		msg += "\nSpecify which one: thriftpyi check --file <name> <dir>"
		return nil, fmt.Errorf("%s", msg)
	}
}

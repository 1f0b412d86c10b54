package utils

import (
	"path/filepath"

	"github.com/jinko-lang/jinko/internal/config"
)

// ExtractModuleName derives a module name from a file or directory path.
// It takes the base name and removes the source extension.
func ExtractModuleName(path string) string {
	name := filepath.Base(path)
	return config.TrimSourceExt(name)
}

// GetModuleDir returns the directory context for a module path.
// If the path points to a source file, returns the file's directory.
// If the path points to a directory (no extension), returns the path itself.
func GetModuleDir(path string) string {
	if config.HasSourceExt(path) {
		return filepath.Dir(path)
	}
	return path
}

// IncludeCandidates returns, in lookup order, the directory and file paths
// an include path may refer to under base.
func IncludeCandidates(base string, segments []string) (dir, file string) {
	dir = filepath.Join(append([]string{base}, segments...)...)
	return dir, dir + config.SourceFileExt
}

package utils

import (
	"os"
	"path/filepath"
	"strings"
)

func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	// Convert to absolute path (resolves ../../ and cleans the path)
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}

	// Get the directory containing the file
	parentDir = filepath.Dir(fullPath)

	return fullPath, parentDir, nil
}

// AsmPath returns the default output path for a source file: the same
// directory and base name with a .asm extension. A source that already
// ends in .asm gets a second one so it is never overwritten.
func AsmPath(srcPath string) string {
	ext := filepath.Ext(srcPath)
	if ext == ".asm" {
		return srcPath + ".asm"
	}
	return strings.TrimSuffix(srcPath, ext) + ".asm"
}

// ReadExpression reads the first non-blank, non-comment line of a source
// file. Lines starting with '#' or ';' are comments.
func ReadExpression(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		return line, nil
	}
	return "", nil
}

package assets

import (
	"bufio"
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/replicate/wheelforge/pkg/util/files"
)

// IgnoreFilename lists, in gitignore syntax, files in the assets directory that are not plugins.
const IgnoreFilename = ".assetignore"

// CreateMatcher returns the matcher for dir's ignore file, or nil when there is none.
func CreateMatcher(dir string) (*ignore.GitIgnore, error) {
	ignorePath := filepath.Join(dir, IgnoreFilename)
	exists, err := files.Exists(ignorePath)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	patterns, err := readIgnoreFile(ignorePath)
	if err != nil {
		return nil, err
	}
	return ignore.CompileIgnoreLines(patterns...), nil
}

func readIgnoreFile(path string) ([]string, error) {
	var patterns []string
	file, err := os.Open(path)
	if err != nil {
		return patterns, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		patterns = append(patterns, scanner.Text())
	}
	return patterns, scanner.Err()
}

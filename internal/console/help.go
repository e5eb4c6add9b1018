package console

import (
	_ "embed"
	"fmt"
	"os"
)

//go:embed help.txt
var defaultHelp string

// LoadHelp returns the contents of path, or the built-in help text when
// path is empty.
func LoadHelp(path string) (string, error) {
	if path == "" {
		return defaultHelp, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("load help text: %w", err)
	}
	return string(data), nil
}

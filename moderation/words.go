package moderation

import (
	"os"
	"strings"
)

// LoadWords reads one forbidden word or phrase per line.
// Blank lines and #-comments are skipped.
func LoadWords(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var words []string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words, nil
}

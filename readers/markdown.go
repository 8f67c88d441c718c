package readers

import (
	"fmt"
	"os"
	"path/filepath"
)

type MarkdownFileReader struct{}

func (r *MarkdownFileReader) CanRead(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".md" || ext == ".txt"
}

func (r *MarkdownFileReader) ReadText(path string) (string, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read guideline file: %w", err)
	}

	return string(buf), nil
}

package readers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_MarkdownFileReader_CanRead(t *testing.T) {
	r := MarkdownFileReader{}
	assert.True(t, r.CanRead("guidelines/flu.md"))
	assert.True(t, r.CanRead("guidelines/notes.txt"))
	assert.False(t, r.CanRead("guidelines/scan.pdf"))
}

func Test_MarkdownFileReader_ReadText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flu.md")
	require.NoError(t, os.WriteFile(path, []byte("# Flu\n\nDemam dan batuk."), 0o644))

	r := MarkdownFileReader{}
	txt, err := r.ReadText(path)
	require.NoError(t, err)

	assert.Equal(t, "# Flu\n\nDemam dan batuk.", txt)
}

func Test_MarkdownFileReader_ReadText_MissingFile(t *testing.T) {
	r := MarkdownFileReader{}
	_, err := r.ReadText(filepath.Join(t.TempDir(), "absent.md"))

	assert.Error(t, err)
}

package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractText_MissingFile(t *testing.T) {
	got := ExtractText(filepath.Join(t.TempDir(), "nope.pdf"), nil)
	require.Equal(t, "", got)
}

func TestExtractText_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 this is not a real pdf"), 0o644))

	got := ExtractText(path, nil)
	require.Equal(t, "", got)
}

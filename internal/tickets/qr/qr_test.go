package qr_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loksangam/internal/tickets/qr"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G'}

func TestEncodePNG(t *testing.T) {
	png, err := qr.EncodePNG("Alice|alice@x.com|5|2|uuid-1", qr.DefaultSize)
	require.NoError(t, err)
	require.NotEmpty(t, png)
	assert.True(t, bytes.HasPrefix(png, pngHeader), "output should be a PNG image")
}

func TestEncodePNGEmptyData(t *testing.T) {
	_, err := qr.EncodePNG("", qr.DefaultSize)
	assert.Error(t, err)
}

func TestEncodePNGDefaultsSize(t *testing.T) {
	png, err := qr.EncodePNG("Alice|alice@x.com|5|2|uuid-1", 0)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ticket.png")

	require.NoError(t, qr.WriteFile("Alice|alice@x.com|5|2|uuid-1", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngHeader))
}

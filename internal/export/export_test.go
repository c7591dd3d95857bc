package export

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedDownloads(t *testing.T) Downloads {
	t.Helper()
	at := time.UnixMilli(1700000000123)
	return Downloads{Dir: filepath.Join(t.TempDir(), "downloads"), Now: func() time.Time { return at }}
}

func TestWriteText(t *testing.T) {
	d := fixedDownloads(t)

	path, err := d.WriteText("a: 1\n")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(d.Dir, "1700000000123.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", string(data))
}

func TestWriteImage(t *testing.T) {
	d := fixedDownloads(t)

	// "PNG" encoded.
	path, err := d.WriteImage("DATA:image/PNG;base64,UE5H")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(d.Dir, "1700000000123.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "PNG", string(data))
}

func TestWriteImageRejectsOtherInput(t *testing.T) {
	d := fixedDownloads(t)
	for _, in := range []string{
		"",
		"hello",
		"data:text/plain;base64,aGk=",
		"data:image/png,raw",
		"data:image/averyveryverylongextension;base64,aGk=",
		"data:image/png;base64,!!!",
	} {
		_, err := d.WriteImage(in)
		assert.ErrorIs(t, err, ErrNotImageDataURL, in)
	}
	_, err := os.Stat(d.Dir)
	assert.True(t, os.IsNotExist(err), "nothing should be written")
}

func TestDownloadsRequiresDir(t *testing.T) {
	_, err := Downloads{}.WriteText("x")
	assert.Error(t, err)
}

func TestMemoryClipboard(t *testing.T) {
	var c MemoryClipboard
	require.NoError(t, c.WriteText("copied"))
	assert.Equal(t, "copied", c.Text)
}

func TestSystemClipboardCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}
	out := filepath.Join(t.TempDir(), "clip.txt")
	c := NewSystemClipboard(t.Context(), "cat > "+out)
	require.NoError(t, c.WriteText("hello"))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	failing := NewSystemClipboard(t.Context(), "exit 3")
	assert.Error(t, failing.WriteText("x"))
}

func TestWriteTextAsUsesExtension(t *testing.T) {
	d := fixedDownloads(t)

	path, err := d.WriteTextAs("a: 1\n", ".yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(d.Dir, "1700000000123.yaml"), path)

	path, err = d.WriteTextAs("x", "")
	require.NoError(t, err)
	assert.Equal(t, ".txt", filepath.Ext(path))
}

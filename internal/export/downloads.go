package export

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrNotImageDataURL is returned by WriteImage for input that is not a
// base64 image data URL.
var ErrNotImageDataURL = errors.New("not a base64 image data URL")

var imageDataURL = regexp.MustCompile(`(?i)^data:image/([a-z]{1,20});base64,`)

// Downloads writes exported content into Dir, naming each file after the
// current time in Unix milliseconds.
type Downloads struct {
	Dir string
	Now func() time.Time
}

func (d Downloads) path(ext string) (string, error) {
	if d.Dir == "" {
		return "", errors.New("downloads directory is empty")
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create downloads dir: %w", err)
	}
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	return filepath.Join(d.Dir, strconv.FormatInt(now().UnixMilli(), 10)+"."+ext), nil
}

// WriteText stores text as <ms>.txt and returns the file path.
func (d Downloads) WriteText(text string) (string, error) {
	return d.WriteTextAs(text, "txt")
}

// WriteTextAs stores text as <ms>.<ext>; a leading dot on ext is ignored.
func (d Downloads) WriteTextAs(text, ext string) (string, error) {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "txt"
	}
	path, err := d.path(ext)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// WriteImage decodes a data:image/<ext>;base64 URL and stores the bytes as
// <ms>.<ext>.
func (d Downloads) WriteImage(dataURL string) (string, error) {
	m := imageDataURL.FindStringSubmatch(dataURL)
	if m == nil {
		return "", ErrNotImageDataURL
	}
	payload := strings.TrimSpace(dataURL[len(m[0]):])
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotImageDataURL, err)
	}

	path, err := d.path(strings.ToLower(m[1]))
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

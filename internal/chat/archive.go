package chat

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ReadExport returns the transcript text of an exported chat. A .zip export
// yields its first .txt member; anything else is read as plain text, which
// matches how WhatsApp exports arrive (.txt directly, or .zip "with media").
func ReadExport(name string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading export %s: %w", name, err)
	}

	if strings.ToLower(filepath.Ext(name)) != ".zip" {
		return string(data), nil
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening zip export %s: %w", name, err)
	}
	for _, zf := range zr.File {
		if !strings.HasSuffix(strings.ToLower(zf.Name), ".txt") {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return "", fmt.Errorf("opening %s in %s: %w", zf.Name, name, err)
		}
		text, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("reading %s in %s: %w", zf.Name, name, err)
		}
		return string(text), nil
	}
	return "", errors.New("zip export contains no .txt transcript")
}

package chat

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

func zipWith(t *testing.T, entries map[string]string) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestReadExportPlainText(t *testing.T) {
	got, err := ReadExport("chat.txt", strings.NewReader("11/01/24, 09:00 - A: hi"))
	if err != nil {
		t.Fatalf("ReadExport: %v", err)
	}
	if got != "11/01/24, 09:00 - A: hi" {
		t.Errorf("got %q", got)
	}
}

func TestReadExportZip(t *testing.T) {
	r := zipWith(t, map[string]string{
		"IMG-001.jpg":               "not text",
		"WhatsApp Chat - Alice.txt": "11/01/24, 09:00 - A: hi",
	})

	got, err := ReadExport("export.zip", r)
	if err != nil {
		t.Fatalf("ReadExport: %v", err)
	}
	if got != "11/01/24, 09:00 - A: hi" {
		t.Errorf("got %q", got)
	}
}

func TestReadExportZipWithoutTranscript(t *testing.T) {
	r := zipWith(t, map[string]string{"IMG-001.jpg": "not text"})

	if _, err := ReadExport("export.zip", r); err == nil {
		t.Fatal("expected error for zip without a .txt entry")
	}
}

func TestReadExportCorruptZip(t *testing.T) {
	if _, err := ReadExport("export.zip", strings.NewReader("definitely not a zip")); err == nil {
		t.Fatal("expected error for corrupt zip")
	}
}

package storage

import (
	"os"
	"strings"
	"testing"
)

func TestSaveAndDelete(t *testing.T) {
	archive, err := NewArchive(t.TempDir())
	if err != nil {
		t.Fatalf("NewArchive: %v", err)
	}

	name, err := archive.Save([]byte("fake image bytes"), ".png")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(name, ".png") {
		t.Fatalf("filename = %q, want .png suffix", name)
	}

	data, err := os.ReadFile(archive.Path(name))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "fake image bytes" {
		t.Fatalf("content = %q", data)
	}

	if err := archive.Delete(name); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(archive.Path(name)); !os.IsNotExist(err) {
		t.Fatalf("file still exists after delete: %v", err)
	}
}

func TestSaveDefaultExtension(t *testing.T) {
	archive, err := NewArchive(t.TempDir())
	if err != nil {
		t.Fatalf("NewArchive: %v", err)
	}

	name, err := archive.Save([]byte{0xff, 0xd8}, "")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(name, ".jpg") {
		t.Fatalf("filename = %q, want .jpg default", name)
	}
}

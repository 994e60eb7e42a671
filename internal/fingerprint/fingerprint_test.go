package fingerprint_test

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"filekeeper/internal/catalog"
	"filekeeper/internal/fingerprint"
	"filekeeper/internal/services"
)

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestFingerprintHashAndCategory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.pdf")
	content := []byte("not really a pdf")
	writeFile(t, path, content)

	fp := fingerprint.New(nil, 0)
	result, err := fp.Fingerprint(path)
	if err != nil {
		t.Fatalf("Fingerprint returned error: %v", err)
	}

	sum := sha256.Sum256(content)
	if result.Hash != hex.EncodeToString(sum[:]) {
		t.Fatalf("unexpected hash: %q", result.Hash)
	}
	if result.Category != catalog.CategoryDocuments {
		t.Fatalf("unexpected category: %q", result.Category)
	}
	if result.Preview != "" {
		t.Fatalf("expected no preview for .pdf, got %q", result.Preview)
	}
}

func TestFingerprintPreview(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	content := []byte("hello preview world")
	writeFile(t, path, content)

	fp := fingerprint.New([]string{".txt"}, 5)
	result, err := fp.Fingerprint(path)
	if err != nil {
		t.Fatalf("Fingerprint returned error: %v", err)
	}
	if result.Preview != "hello" {
		t.Fatalf("unexpected preview: %q", result.Preview)
	}

	// Preview must not change the hash.
	sum := sha256.Sum256(content)
	if result.Hash != hex.EncodeToString(sum[:]) {
		t.Fatalf("hash changed by preview path: %q", result.Hash)
	}
}

func TestFingerprintPreviewReplacesInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.log")
	content := []byte{'o', 'k', 0xff, 0xfe, 'e', 'n', 'd'}
	writeFile(t, path, content)

	fp := fingerprint.New([]string{".log"}, 10)
	result, err := fp.Fingerprint(path)
	if err != nil {
		t.Fatalf("Fingerprint returned error: %v", err)
	}
	if !strings.HasPrefix(result.Preview, "ok") || !strings.HasSuffix(result.Preview, "end") {
		t.Fatalf("unexpected preview: %q", result.Preview)
	}
	if !strings.ContainsRune(result.Preview, '�') {
		t.Fatalf("expected replacement character in preview: %q", result.Preview)
	}
}

func TestFingerprintMissingFile(t *testing.T) {
	fp := fingerprint.New(nil, 0)
	_, err := fp.Fingerprint(filepath.Join(t.TempDir(), "absent.bin"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, services.ErrUnreadableFile) {
		t.Fatalf("expected unreadable marker, got %v", err)
	}
}

func TestFingerprintDirectoryFails(t *testing.T) {
	dir := t.TempDir()
	fp := fingerprint.New(nil, 0)
	if _, err := fp.Fingerprint(dir); err == nil {
		t.Fatal("expected error when fingerprinting a directory")
	}
}

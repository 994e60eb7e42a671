package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"filekeeper/internal/catalog"
	"filekeeper/internal/services"
)

// Result carries everything the scanner records from one fingerprinting pass.
type Result struct {
	Hash     string
	Category catalog.Category
	Preview  string
}

// Fingerprinter hashes file content and classifies files by extension.
type Fingerprinter struct {
	previewExts     map[string]struct{}
	previewMaxChars int
}

// New builds a Fingerprinter. previewExtensions lists lower-cased extensions
// (leading dot included) that receive a bounded text preview; an empty list
// disables previews.
func New(previewExtensions []string, previewMaxChars int) *Fingerprinter {
	exts := make(map[string]struct{}, len(previewExtensions))
	for _, ext := range previewExtensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized == "" {
			continue
		}
		exts[normalized] = struct{}{}
	}
	return &Fingerprinter{previewExts: exts, previewMaxChars: previewMaxChars}
}

// Fingerprint streams path's content through SHA-256 and derives the
// extension category. Text-like files also get a preview of the leading
// characters, decoded best-effort with invalid bytes replaced.
func (f *Fingerprinter) Fingerprint(path string) (Result, error) {
	ext := strings.ToLower(filepath.Ext(path))
	result := Result{Category: catalog.CategoryForExtension(ext)}

	file, err := os.Open(path)
	if err != nil {
		return Result{}, services.Wrap(services.ErrUnreadableFile, "fingerprint", "open", path, err)
	}
	defer file.Close()

	hasher := sha256.New()

	if _, wantPreview := f.previewExts[ext]; wantPreview && f.previewMaxChars > 0 {
		head := make([]byte, f.previewMaxChars*utf8.UTFMax)
		n, err := io.ReadFull(file, head)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return Result{}, services.Wrap(services.ErrUnreadableFile, "fingerprint", "read", path, err)
		}
		head = head[:n]
		hasher.Write(head)
		result.Preview = makePreview(head, f.previewMaxChars)
	}

	if _, err := io.Copy(hasher, file); err != nil {
		return Result{}, services.Wrap(services.ErrUnreadableFile, "fingerprint", "read", path, err)
	}

	result.Hash = hex.EncodeToString(hasher.Sum(nil))
	return result, nil
}

// makePreview decodes up to maxChars characters from raw. Invalid UTF-8
// sequences become replacement characters rather than failing.
func makePreview(raw []byte, maxChars int) string {
	decoded := strings.ToValidUTF8(string(raw), string(utf8.RuneError))
	runes := []rune(decoded)
	if len(runes) > maxChars {
		runes = runes[:maxChars]
	}
	return string(runes)
}

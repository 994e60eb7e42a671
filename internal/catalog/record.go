package catalog

import "time"

// Record captures one observed file at scan time. It is a snapshot: nothing
// re-validates it against disk after creation except the mover, which
// re-checks existence immediately before acting on a plan entry.
type Record struct {
	// Path is the absolute current location. Only the mover mutates it,
	// after a successful relocation.
	Path string
	// Name is the base name including extension.
	Name string
	// Size in bytes.
	Size int64
	// ModifiedTime is the filesystem-reported last write.
	ModifiedTime time.Time
	// Extension is lower-cased and includes the leading dot. Empty when the
	// name has no extension.
	Extension string
	// ContentHash is the hex SHA-256 of the full content. Empty when the
	// file could not be read; such records stay in scan results but are
	// excluded from duplicate grouping.
	ContentHash string
	// Category derives from Extension. CategoryUnknown marks records whose
	// fingerprinting failed.
	Category Category
	// Preview holds the first characters of text-like files, advisory only.
	Preview string
}

// Readable reports whether fingerprinting succeeded for the record.
func (r Record) Readable() bool {
	return r.ContentHash != ""
}

// Warning kinds attached to scan results.
const (
	WarnUnreadableFile = "unreadable_file"
	WarnTruncated      = "truncated"
	WarnSkippedDir     = "skipped_dir"
)

// Warning records a non-fatal condition observed while scanning.
type Warning struct {
	Kind   string `json:"kind"`
	Path   string `json:"path,omitempty"`
	Detail string `json:"detail,omitempty"`
}

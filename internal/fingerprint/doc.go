// Package fingerprint computes content hashes and bounded text previews for
// scanned files.
//
// Hashing streams the full file through SHA-256 without ever holding more
// than a small buffer, so arbitrarily large files are safe. Read failures
// surface as ErrUnreadableFile-tagged errors; the scanner degrades the
// affected record instead of aborting.
package fingerprint

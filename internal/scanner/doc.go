// Package scanner walks root directories and produces document records.
//
// The walk prunes excluded directory names before descending, tracks visited
// directory identities (device and inode) so cyclic symlinks terminate, and
// enforces a hard cap on collected files. Fingerprinting runs on a bounded
// worker pool; a failed fingerprint degrades that one record instead of
// aborting the scan. Results carry no ordering guarantee.
package scanner

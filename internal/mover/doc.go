// Package mover executes plans against the filesystem.
//
// Every entry is handled independently: a failure is recorded with its path
// and cause and the batch continues, so one locked or vanished file never
// aborts the remaining entries. Sources are re-checked immediately before
// acting and delete entries re-read the file size just before removal so
// reclaimed-space accounting stays accurate. The mover never re-plans; a
// retry means building a fresh plan against the post-failure tree.
//
// Moves rename within a device and fall back to a verified copy plus source
// removal across devices. A destination occupied at execution time fails
// that entry rather than overwriting whatever appeared there.
package mover

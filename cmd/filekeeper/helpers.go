package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

const pathDisplayWidth = 60

func formatSize(bytes int64) string {
	if bytes < 0 {
		return fmt.Sprintf("-%s", humanize.IBytes(uint64(-bytes)))
	}
	return humanize.IBytes(uint64(bytes))
}

func formatCount(n int) string {
	return humanize.Comma(int64(n))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func formatRunDuration(started time.Time, finished *time.Time) string {
	if finished == nil || started.IsZero() {
		return "-"
	}
	d := finished.Sub(started)
	if d < 0 {
		return "-"
	}
	return d.Round(time.Millisecond).String()
}

// shortID trims report UUIDs for table display; full IDs remain available
// via --json and reports show.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// shortenPath keeps the tail of long paths so the file name stays visible
// in fixed-width tables.
func shortenPath(path string) string {
	if len(path) <= pathDisplayWidth {
		return path
	}
	return "…" + path[len(path)-pathDisplayWidth+1:]
}

// Package metrics reports process health for the /health endpoint.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// SysHealth represents real-time process metrics.
type SysHealth struct {
	Status     string `json:"status"`
	Uptime     string `json:"uptime"`
	AllocMB    uint64 `json:"alloc_mb"`
	SysMB      uint64 `json:"sys_mb"`
	NumGC      uint32 `json:"num_gc"`
	Goroutines int    `json:"goroutines"`
	Bookmarks  int    `json:"bookmarks"`
	DataSize   string `json:"data_size,omitempty"`
}

var started = time.Now()

// GetSysHealth collects health data. dataPath is the bookmark file or
// database; an empty path skips the size report.
func GetSysHealth(dataPath string, bookmarks int) SysHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	h := SysHealth{
		Status:     "ok",
		Uptime:     time.Since(started).Round(time.Second).String(),
		AllocMB:    m.Alloc / 1024 / 1024,
		SysMB:      m.Sys / 1024 / 1024,
		NumGC:      m.NumGC,
		Goroutines: runtime.NumGoroutine(),
		Bookmarks:  bookmarks,
	}
	if dataPath != "" {
		h.DataSize = formatSize(dataSize(dataPath))
	}
	return h
}

// dataSize sums the bookmark file and its siblings sharing the same base
// name, so sqlite -wal and -shm files are counted.
func dataSize(path string) int64 {
	matches, err := filepath.Glob(path + "*")
	if err != nil {
		return 0
	}
	var size int64
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		size += info.Size()
	}
	return size
}

func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

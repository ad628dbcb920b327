package logging

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const dirCleanerInterval = time.Minute

var dirCleanerCancel context.CancelFunc

// dirCleaner keeps the total size of *.log files in dir at or below maxBytes.
type dirCleaner struct {
	dir       string
	maxBytes  int64
	protected string
}

type logFileInfo struct {
	path    string
	size    int64
	modTime time.Time
}

func restartDirCleanerLocked(logDir string, maxTotalSizeMB int, protectedPath string) {
	stopDirCleanerLocked()

	dir := strings.TrimSpace(logDir)
	if maxTotalSizeMB <= 0 || dir == "" {
		return
	}
	c := &dirCleaner{
		dir:       filepath.Clean(dir),
		maxBytes:  int64(maxTotalSizeMB) * 1024 * 1024,
		protected: cleanOrEmpty(protectedPath),
	}
	ctx, cancel := context.WithCancel(context.Background())
	dirCleanerCancel = cancel
	go c.run(ctx)
}

func stopDirCleanerLocked() {
	if dirCleanerCancel == nil {
		return
	}
	dirCleanerCancel()
	dirCleanerCancel = nil
}

func (c *dirCleaner) run(ctx context.Context) {
	ticker := time.NewTicker(dirCleanerInterval)
	defer ticker.Stop()

	for {
		removed, err := c.sweep()
		if err != nil {
			log.WithError(err).Warn("logging: failed to enforce log directory size limit")
		} else if removed > 0 {
			log.Debugf("logging: removed %d old log file(s)", removed)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// sweep deletes the oldest unprotected log files until the directory fits.
func (c *dirCleaner) sweep() (int, error) {
	if c.maxBytes <= 0 {
		return 0, nil
	}
	files, total, err := c.list()
	if err != nil || total <= c.maxBytes {
		return 0, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].modTime.Before(files[j].modTime) })

	removed := 0
	for _, f := range files {
		if total <= c.maxBytes {
			break
		}
		if c.protected != "" && f.path == c.protected {
			continue
		}
		if errRemove := os.Remove(f.path); errRemove != nil {
			log.WithError(errRemove).Warnf("logging: failed to remove old log file: %s", filepath.Base(f.path))
			continue
		}
		total -= f.size
		removed++
	}
	return removed, nil
}

func (c *dirCleaner) list() ([]logFileInfo, int64, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, nil
		}
		return nil, 0, err
	}
	var (
		files []logFileInfo
		total int64
	)
	for _, entry := range entries {
		if entry.IsDir() || !isLogFileName(entry.Name()) {
			continue
		}
		info, errInfo := entry.Info()
		if errInfo != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, logFileInfo{
			path:    filepath.Join(c.dir, entry.Name()),
			size:    info.Size(),
			modTime: info.ModTime(),
		})
		total += info.Size()
	}
	return files, total, nil
}

func isLogFileName(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return false
	}
	return strings.HasSuffix(lower, ".log") || strings.HasSuffix(lower, ".log.gz")
}

func cleanOrEmpty(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	return filepath.Clean(path)
}

package store

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// RotateBackups copies the current raw file of an asset into the backup
// directory as <asset>_backup_<date>.csv, then prunes the oldest backups
// beyond MaxBackups. At most one backup is taken per calendar day. A missing
// raw file or disabled backups is a no-op.
func (s *Store) RotateBackups(asset string) error {
	if !s.BackupsEnabled {
		return nil
	}
	src := s.RawPath(asset)
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil
	}

	dir := filepath.Join(s.BackupDir, asset)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	dst := filepath.Join(dir, fmt.Sprintf("%s_backup_%s.csv", asset, time.Now().Format("2006-01-02")))
	if _, err := os.Stat(dst); err == nil {
		return nil // already backed up today
	}
	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("backup %s: %w", asset, err)
	}
	log.Printf("[INFO] created backup %s", dst)

	return s.pruneBackups(dir, asset)
}

func (s *Store) pruneBackups(dir, asset string) error {
	matches, err := filepath.Glob(filepath.Join(dir, asset+"_backup_*.csv"))
	if err != nil {
		return err
	}
	if s.MaxBackups <= 0 || len(matches) <= s.MaxBackups {
		return nil
	}
	// Backup names embed the date, so lexical order is chronological.
	sort.Strings(matches)
	for _, old := range matches[:len(matches)-s.MaxBackups] {
		if err := os.Remove(old); err != nil {
			return fmt.Errorf("prune backup %s: %w", old, err)
		}
		log.Printf("[INFO] deleted oldest backup %s", old)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

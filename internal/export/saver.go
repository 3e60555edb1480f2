package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// WriterSaver writes the workbook to a stream and ignores the file name.
type WriterSaver struct {
	W io.Writer
}

// Save implements Saver.
func (s WriterSaver) Save(ctx context.Context, _ string, wb *excelize.File) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := wb.WriteTo(s.W); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// DirSaver stores workbooks in a directory. An existing file with the same
// name is replaced.
type DirSaver struct {
	Dir string
}

// NewDirSaver creates a saver writing into dir.
func NewDirSaver(dir string) *DirSaver {
	return &DirSaver{Dir: dir}
}

// Path returns where a workbook named filename is stored.
func (s *DirSaver) Path(filename string) string {
	return filepath.Join(s.Dir, filepath.Base(filename))
}

// Save implements Saver.
func (s *DirSaver) Save(ctx context.Context, filename string, wb *excelize.File) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	// Write beside the target and rename so readers never see half a file.
	target := s.Path(filename)
	tmp, err := os.CreateTemp(s.Dir, ".export-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := wb.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("move workbook into place: %w", err)
	}
	return nil
}

// Purge removes stored workbooks last modified before olderThan and returns
// how many were removed. A missing directory is not an error.
func (s *DirSaver) Purge(ctx context.Context, olderThan time.Time) (int, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read export dir: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), xlsxExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(olderThan) {
			if err := os.Remove(filepath.Join(s.Dir, entry.Name())); err != nil {
				return removed, fmt.Errorf("remove %s: %w", entry.Name(), err)
			}
			removed++
		}
	}
	return removed, nil
}

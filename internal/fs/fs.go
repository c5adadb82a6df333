// Package fs writes generated identifiers to files.
package fs

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Locker serializes access to a shared file.
type Locker interface {
	With(ctx context.Context, fn func() error) error
}

// Appender appends lines to Path while holding Lock. A nil Lock appends
// without coordination.
type Appender struct {
	Path string
	Lock Locker
}

// Append writes each line followed by a newline, creating the file and its
// directory as needed. All lines land in one locked write.
func (a *Appender) Append(ctx context.Context, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	// The lock file lives beside the target, so the directory must exist
	// before locking.
	dir := filepath.Dir(a.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	if a.Lock == nil {
		return a.appendImpl(lines)
	}
	return a.Lock.With(ctx, func() error {
		return a.appendImpl(lines)
	})
}

func (a *Appender) appendImpl(lines []string) (err error) {
	f, err := os.OpenFile(a.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", a.Path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", a.Path, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := w.WriteString(line); err != nil {
			return fmt.Errorf("writing %s: %w", a.Path, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing %s: %w", a.Path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", a.Path, err)
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Aptivi/NitrocidKS-sub040/internal/domain"
	"github.com/Aptivi/NitrocidKS-sub040/internal/log"
	"github.com/Aptivi/NitrocidKS-sub040/internal/paths"
)

// ErrLockTimeout means another kernel held the rc file for too long.
var ErrLockTimeout = errors.New("config: lock timeout")

const (
	lockWait  = 5 * time.Second
	lockStale = 30 * time.Second
	lockRetry = 50 * time.Millisecond
)

// rcFile is the key=value settings file under the kernel home.
type rcFile struct {
	path string
}

func currentRC() (rcFile, error) {
	p, err := paths.ConfigFilePath()
	if err != nil {
		return rcFile{}, err
	}
	return rcFile{path: p}, nil
}

// ReadLines returns the lines of the rc file. A missing or empty file is
// seeded with the documented defaults.
func ReadLines() ([]string, error) {
	rc, err := currentRC()
	if err != nil {
		return nil, err
	}
	return rc.read()
}

// WriteLines replaces the rc file with lines through a rename.
func WriteLines(lines []string) error {
	rc, err := currentRC()
	if err != nil {
		return err
	}
	return rc.write(lines)
}

// WithLock runs fn while this process owns the rc file.
func WithLock(fn func() error) error {
	rc, err := currentRC()
	if err != nil {
		return err
	}
	unlock, err := rc.lock()
	if err != nil {
		return err
	}
	defer unlock()
	return fn()
}

func (rc rcFile) read() ([]string, error) {
	data, err := os.ReadFile(rc.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		data = nil
	case err != nil:
		return nil, err
	default:
		if err := os.Chmod(rc.path, 0o600); err != nil {
			log.Warn("config: chmod %s: %v", rc.path, err)
		}
	}

	if len(data) == 0 {
		seed := seedLines()
		if err := rc.write(seed); err != nil {
			log.Warn("config: seeding %s: %v", rc.path, err)
		}
		return seed, nil
	}

	text := strings.TrimSuffix(string(data), "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines, nil
}

func (rc rcFile) write(lines []string) (err error) {
	dir := filepath.Dir(rc.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".nitrocidrc.*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	var body strings.Builder
	for _, line := range lines {
		body.WriteString(line)
		body.WriteByte('\n')
	}

	if err = tmp.Chmod(0o600); err != nil {
		return err
	}
	if _, err = tmp.WriteString(body.String()); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), rc.path)
}

// lock creates the sibling .lock file exclusively. The file holds the
// owner's pid; one older than lockStale is taken over.
func (rc rcFile) lock() (func(), error) {
	name := rc.path + ".lock"
	deadline := time.Now().Add(lockWait)

	for {
		f, err := os.OpenFile(name, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			_, _ = fmt.Fprint(f, strconv.Itoa(os.Getpid()))
			_ = f.Close()
			return func() { _ = os.Remove(name) }, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, err
		}

		if info, statErr := os.Stat(name); statErr == nil && time.Since(info.ModTime()) > lockStale {
			log.Warn("config: removing stale lock %s", name)
			_ = os.Remove(name)
			continue
		}
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}
		time.Sleep(lockRetry)
	}
}

// seedLines renders the visible keys with their defaults, grouped by
// section. Keys that are only meaningful when set stay commented out.
func seedLines() []string {
	lines := []string{
		"# Nitrocid kernel configuration",
		"# Edit values below or use: config set <key> <value>",
	}

	var section string
	for _, key := range domain.ConfigKeys {
		if key.Hidden {
			continue
		}
		if key.Section != section {
			section = key.Section
			lines = append(lines, "", "# "+section)
		}
		if key.HideIfEmpty {
			lines = append(lines, "# "+key.Name+"=")
			continue
		}
		value, _ := defaultOf(key.Name)
		lines = append(lines, key.Name+"="+quoteValue(value))
	}
	return lines
}

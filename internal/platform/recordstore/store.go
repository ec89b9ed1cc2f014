package recordstore

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	fieldSeparator = "\t"
	maxLineSize    = 1 << 20
)

var fieldSanitizer = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")

// Store keeps one record per line, fields separated by tabs. A record is
// identified by its first KeyFields fields. Every call opens, writes and
// closes the file; nothing is cached between calls.
type Store struct {
	path      string
	keyFields int
}

type Option func(*Store)

// WithKeyFields sets how many leading fields make up the key (default 1).
func WithKeyFields(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.keyFields = n
		}
	}
}

func New(path string, opts ...Option) *Store {
	s := &Store{
		path:      path,
		keyFields: 1,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Store) Path() string {
	return s.path
}

// Upsert replaces the record with the same key in place, or appends it when
// the key is new. Other records keep their position.
func (s *Store) Upsert(fields ...string) error {
	if len(fields) < s.keyFields {
		return fmt.Errorf("record has %d fields, key needs %d", len(fields), s.keyFields)
	}

	line := encode(fields)
	key := s.keyOf(fields)

	lines, err := s.readLines()
	if err != nil {
		return err
	}

	replaced := false
	out := lines[:0]
	for _, l := range lines {
		k, ok := s.lineKey(l)
		if !ok || k != key {
			out = append(out, l)
			continue
		}
		if !replaced {
			out = append(out, line)
			replaced = true
		}
	}

	if !replaced {
		return s.appendLine(line)
	}

	return s.rewrite(out)
}

// Delete removes the record with the given key. A missing key is not an error.
func (s *Store) Delete(key ...string) error {
	want := strings.Join(key, fieldSeparator)

	lines, err := s.readLines()
	if err != nil {
		return err
	}

	found := false
	out := lines[:0]
	for _, l := range lines {
		if k, ok := s.lineKey(l); ok && k == want {
			found = true
			continue
		}
		out = append(out, l)
	}

	if !found {
		return nil
	}

	return s.rewrite(out)
}

// Scan calls fn for every record with its 1-based position and fields. Blank
// lines are not records. A missing file scans as empty.
func (s *Store) Scan(fn func(pos int, fields []string)) error {
	lines, err := s.readLines()
	if err != nil {
		return err
	}

	for i, l := range lines {
		fn(i+1, strings.Split(l, fieldSeparator))
	}

	return nil
}

func (s *Store) keyOf(fields []string) string {
	key := make([]string, s.keyFields)
	for i := range key {
		key[i] = fieldSanitizer.Replace(fields[i])
	}
	return strings.Join(key, fieldSeparator)
}

func (s *Store) lineKey(line string) (string, bool) {
	fields := strings.SplitN(line, fieldSeparator, s.keyFields+1)
	if len(fields) < s.keyFields {
		return "", false
	}
	return strings.Join(fields[:s.keyFields], fieldSeparator), true
}

func (s *Store) readLines() ([]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	return lines, nil
}

func (s *Store) appendLine(line string) error {
	if err := s.ensureDir(); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", s.path, err)
	}

	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("failed to append to %s: %w", s.path, err)
	}

	return f.Close()
}

// rewrite replaces the whole file through a temporary sibling and a rename,
// so a failed write leaves the previous contents intact.
func (s *Store) rewrite(lines []string) error {
	if err := s.ensureDir(); err != nil {
		return err
	}

	tmp := fmt.Sprintf("%s.tmp-%s", s.path, uuid.NewString())
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmp, err)
	}

	w := bufio.NewWriter(f)
	for _, l := range lines {
		if _, err := w.WriteString(l + "\n"); err != nil {
			f.Close()
			os.Remove(tmp)
			return fmt.Errorf("failed to write %s: %w", tmp, err)
		}
	}

	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}

	return nil
}

func (s *Store) ensureDir() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return nil
}

func encode(fields []string) string {
	clean := make([]string, len(fields))
	for i, f := range fields {
		clean[i] = fieldSanitizer.Replace(f)
	}
	return strings.Join(clean, fieldSeparator)
}

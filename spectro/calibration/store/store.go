// Package store keeps a library of calibration profiles as JSON files in a
// directory.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/cwbudde/algo-spectro/spectro/calibration"
)

var (
	// ErrNotFound is returned when a named profile does not exist.
	ErrNotFound = errors.New("store: profile not found")
	// ErrOutsideStore is returned by Delete for a path outside the store
	// directory.
	ErrOutsideStore = errors.New("store: path outside store directory")
)

const ext = ".json"

// Entry summarises a stored profile.
type Entry struct {
	Name        string
	Description string
	CreatedAt   time.Time
	Path        string
	Points      int
	Order       int
}

// Store is a directory of calibration profiles. Methods are safe to call
// from multiple goroutines as long as they do not write the same name.
type Store struct {
	dir string
}

// Open returns a store rooted at dir, creating the directory if needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

// Sanitize maps a profile name to a safe file stem. Path separators become
// underscores, characters other than letters, digits and "._- " are dropped,
// and an empty result becomes "unnamed_profile".
func Sanitize(name string) string {
	name = strings.NewReplacer("/", "_", `\`, "_").Replace(name)

	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("._- ", r) {
			b.WriteRune(r)
		}
	}

	stem := strings.TrimSpace(b.String())
	if stem == "" || stem == "." || stem == ".." {
		return "unnamed_profile"
	}
	return stem
}

func (s *Store) pathFor(name string) string {
	return filepath.Join(s.dir, Sanitize(name)+ext)
}

// Save writes m under name and returns the file path. An existing profile
// with the same sanitized name is replaced.
func (s *Store) Save(name, description string, m *calibration.Model) (string, error) {
	return s.write(m.Profile(name, description))
}

func (s *Store) write(p calibration.Profile) (string, error) {
	data, err := marshal(p)
	if err != nil {
		return "", err
	}

	path := s.pathFor(p.Name)
	tmp, err := os.CreateTemp(s.dir, ".profile-*")
	if err != nil {
		return "", fmt.Errorf("store: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("store: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("store: %w", err)
	}
	return path, nil
}

// resolve maps a profile name or an existing file path to a path. Stored
// names take precedence over files of the same name elsewhere.
func (s *Store) resolve(nameOrPath string) (string, error) {
	path := s.pathFor(nameOrPath)
	_, err := os.Stat(path)
	if err == nil {
		return path, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("store: %w", err)
	}
	if fi, err := os.Stat(nameOrPath); err == nil && !fi.IsDir() {
		return nameOrPath, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, nameOrPath)
}

// contains reports whether path names a file directly inside the store
// directory.
func (s *Store) contains(path string) bool {
	dir, err := filepath.Abs(s.dir)
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return filepath.Dir(abs) == dir
}

func (s *Store) read(nameOrPath string) (calibration.Profile, string, error) {
	path, err := s.resolve(nameOrPath)
	if err != nil {
		return calibration.Profile{}, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return calibration.Profile{}, "", fmt.Errorf("store: %w", err)
	}
	p, err := calibration.DecodeProfile(data)
	if err != nil {
		return calibration.Profile{}, "", fmt.Errorf("%s: %w", path, err)
	}
	return p, path, nil
}

// Load returns the model stored under a name or at a file path.
func (s *Store) Load(nameOrPath string) (*calibration.Model, error) {
	p, path, err := s.read(nameOrPath)
	if err != nil {
		return nil, err
	}
	m, err := p.Model()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// List returns the readable profiles, newest first. Files that cannot be
// decoded are skipped.
func (s *Store) List() ([]Entry, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+ext))
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	entries := make([]Entry, 0, len(matches))
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		p, err := calibration.DecodeProfile(data)
		if err != nil {
			continue
		}
		name := p.Name
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(path), ext)
		}
		entries = append(entries, Entry{
			Name:        name,
			Description: p.Description,
			CreatedAt:   p.CreatedAt,
			Path:        path,
			Points:      len(p.Points),
			Order:       p.Order,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

// Delete removes the profile stored under a name or at a file path. Files
// outside the store directory are never removed.
func (s *Store) Delete(nameOrPath string) error {
	path, err := s.resolve(nameOrPath)
	if err != nil {
		return err
	}
	if !s.contains(path) {
		return fmt.Errorf("%w: %s", ErrOutsideStore, path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

// Import copies a profile file into the store, optionally renaming it, and
// returns the stored path. The profile must decode to a valid model.
func (s *Store) Import(path, name string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("store: %w", err)
	}
	p, err := calibration.DecodeProfile(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	if _, err := p.Model(); err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	switch {
	case name != "":
		p.Name = name
	case p.Name == "":
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s.write(p)
}

// Export writes the named profile to dest.
func (s *Store) Export(nameOrPath, dest string) error {
	p, _, err := s.read(nameOrPath)
	if err != nil {
		return err
	}
	data, err := marshal(p)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

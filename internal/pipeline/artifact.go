package pipeline

import (
	"errors"
	"os"
	"path/filepath"
)

var ErrArtifactNotFound = errors.New("artifact not found")

// Store is a flat directory of named intermediate files handed between
// stages. Artifacts are opaque blobs; only existence and size matter here.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Dir() string {
	return s.dir
}

// Path returns the absolute location of a named artifact. Names are flat;
// path separators are stripped so a stage config cannot escape the store.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

func (s *Store) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrArtifactNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *Store) Write(name string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.Path(name), data, 0o644)
}

func (s *Store) ExistsAndNonEmpty(name string) bool {
	info, err := os.Stat(s.Path(name))
	return err == nil && info.Size() > 0
}

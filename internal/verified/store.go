package verified

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"groupcheck/internal/logging"
	"groupcheck/internal/textutil"
)

const fileSuffix = "_verified_groups.json"

// Groupings maps a final group name to the list of items confirmed under it.
type Groupings map[string][]string

// Store manages per-identity verified grouping files in a single directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a store rooted at dir. The directory must already exist.
func NewStore(dir string, logger *slog.Logger) *Store {
	return &Store{dir: dir, logger: logging.NewComponentLogger(logger, "verified-store")}
}

// FilePath returns the verified groupings file for the given identity.
func (s *Store) FilePath(identity string) string {
	return filepath.Join(s.dir, textutil.SanitizeToken(identity)+fileSuffix)
}

func (s *Store) lockPath(identity string) string {
	return s.FilePath(identity) + ".lock"
}

// Load returns the identity's verified groupings. A missing file yields an
// empty map. An unparseable file also yields an empty map: corruption must
// not block the reviewer, so it is logged and treated as empty state.
func (s *Store) Load(identity string) (Groupings, error) {
	data, err := os.ReadFile(s.FilePath(identity))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Groupings{}, nil
		}
		return nil, fmt.Errorf("read verified groupings: %w", err)
	}

	var groupings Groupings
	if err := json.Unmarshal(data, &groupings); err != nil {
		s.logger.Warn("verified groupings file is corrupt, treating as empty",
			logging.String(logging.FieldIdentity, identity),
			logging.Error(err),
		)
		return Groupings{}, nil
	}
	if groupings == nil {
		groupings = Groupings{}
	}
	return groupings, nil
}

// Save overwrites the identity's file with the given groupings.
func (s *Store) Save(identity string, groupings Groupings) error {
	lock := flock.New(s.lockPath(identity))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock verified groupings: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	return s.writeLocked(identity, groupings)
}

// Upsert sets one group entry, performing the read-modify-write cycle under
// the identity's file lock.
func (s *Store) Upsert(identity, name string, items []string) error {
	lock := flock.New(s.lockPath(identity))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock verified groupings: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	groupings, err := s.Load(identity)
	if err != nil {
		return err
	}
	copied := make([]string, len(items))
	copy(copied, items)
	groupings[name] = copied

	return s.writeLocked(identity, groupings)
}

func (s *Store) writeLocked(identity string, groupings Groupings) error {
	data, err := json.MarshalIndent(groupings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal verified groupings: %w", err)
	}

	target := s.FilePath(identity)
	tmp, err := os.CreateTemp(s.dir, filepath.Base(target)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write verified groupings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace verified groupings: %w", err)
	}
	return nil
}

// Clear deletes the identity's file and lock file. Absence is not an error.
func (s *Store) Clear(identity string) error {
	if err := os.Remove(s.FilePath(identity)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove verified groupings: %w", err)
	}
	_ = os.Remove(s.lockPath(identity))
	return nil
}

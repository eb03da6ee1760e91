package feedstore

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"trovekeep/internal/feed"
	"trovekeep/internal/fileutil"
	"trovekeep/internal/logging"
	"trovekeep/internal/services"
)

// ErrNoSnapshot is returned when no current snapshot file exists yet.
var ErrNoSnapshot = errors.New("no catalog snapshot saved")

// Store reads and writes catalog snapshots under a state directory. The
// current snapshot lives at a fixed path; dated backups sit alongside it.
type Store struct {
	snapshotPath string
	backupDir    string
	logger       *slog.Logger
	now          func() time.Time
}

// New constructs a store using the wall clock.
func New(snapshotPath, backupDir string, logger *slog.Logger) *Store {
	return NewWithClock(snapshotPath, backupDir, logger, time.Now)
}

// NewWithClock allows injecting the clock (used in tests).
func NewWithClock(snapshotPath, backupDir string, logger *slog.Logger, now func() time.Time) *Store {
	return &Store{
		snapshotPath: snapshotPath,
		backupDir:    backupDir,
		logger:       logging.NewComponentLogger(logger, "feedstore"),
		now:          now,
	}
}

// Save writes the snapshot's captured text as the current snapshot,
// atomically replacing any previous file.
func (s *Store) Save(snapshot *feed.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(s.snapshotPath), 0o755); err != nil {
		return services.Wrap(services.ErrFilesystem, "feedstore", "create state directory", s.snapshotPath, err)
	}
	if err := fileutil.WriteFileAtomic(s.snapshotPath, snapshot.Raw, 0o644); err != nil {
		return services.Wrap(services.ErrFilesystem, "feedstore", "save snapshot", s.snapshotPath, err)
	}
	s.logger.Info("snapshot saved",
		logging.String(logging.FieldPath, s.snapshotPath),
		logging.Int("products", len(snapshot.Products)))
	return nil
}

// Load reads and parses the current snapshot. A missing file is reported as
// ErrNoSnapshot so callers can distinguish first runs from corruption.
func (s *Store) Load() (*feed.Snapshot, error) {
	raw, err := os.ReadFile(s.snapshotPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrNoSnapshot, s.snapshotPath)
		}
		return nil, services.Wrap(services.ErrFilesystem, "feedstore", "read snapshot", s.snapshotPath, err)
	}
	return feed.ParseSnapshot(raw)
}

// Backup writes the snapshot under a date-stamped name in the backup
// directory. One backup per day; a later save on the same day overwrites
// the earlier one.
func (s *Store) Backup(snapshot *feed.Snapshot) (string, error) {
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrFilesystem, "feedstore", "create backup directory", s.backupDir, err)
	}
	name := fmt.Sprintf("catalog-%s.json", s.now().UTC().Format("2006-01-02"))
	path := filepath.Join(s.backupDir, name)
	if err := fileutil.WriteFileAtomic(path, snapshot.Raw, 0o644); err != nil {
		return "", services.Wrap(services.ErrFilesystem, "feedstore", "write backup", path, err)
	}
	s.logger.Info("snapshot backed up", logging.String(logging.FieldPath, path))
	return path, nil
}

// LoadFile reads and parses an arbitrary snapshot file, typically a dated
// backup being diffed against the current catalog.
func (s *Store) LoadFile(path string) (*feed.Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "feedstore", "read snapshot", path, err)
	}
	return feed.ParseSnapshot(raw)
}

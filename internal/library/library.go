package library

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"trovekeep/internal/feed"
	"trovekeep/internal/fileutil"
	"trovekeep/internal/logging"
	"trovekeep/internal/preflight"
	"trovekeep/internal/services"
)

// Library is the persistent set of game records plus the two directories it
// reconciles: the library root holding finished installers and the
// downloads directory where new files land.
type Library struct {
	root             string
	downloads        string
	statePath        string
	platformPriority []string
	logger           *slog.Logger
	now              func() time.Time

	records []Record
	index   map[string]int
}

// libraryFile is the on-disk shape of library.json.
type libraryFile struct {
	Root             string   `json:"root"`
	Downloads        string   `json:"downloads"`
	NumberDownloaded int      `json:"number_downloaded"`
	Total            int      `json:"total"`
	Games            []Record `json:"games"`
}

// New constructs a library over existing, writable root and downloads
// directories. Both are checked up front; a missing or unwritable directory
// is a hard failure, not something discovered mid-move.
func New(root, downloads, statePath string, platformPriority []string, logger *slog.Logger) (*Library, error) {
	return NewWithClock(root, downloads, statePath, platformPriority, logger, time.Now)
}

// NewWithClock allows injecting the clock (used in tests).
func NewWithClock(root, downloads, statePath string, platformPriority []string, logger *slog.Logger, now func() time.Time) (*Library, error) {
	if err := preflight.RequireDirectory("library", root); err != nil {
		return nil, err
	}
	if err := preflight.RequireDirectory("library", downloads); err != nil {
		return nil, err
	}
	return &Library{
		root:             root,
		downloads:        downloads,
		statePath:        statePath,
		platformPriority: platformPriority,
		logger:           logging.NewComponentLogger(logger, "library"),
		now:              now,
		index:            make(map[string]int),
	}, nil
}

// Root returns the library root directory.
func (l *Library) Root() string {
	return l.root
}

// Records returns the records in stored order.
func (l *Library) Records() []Record {
	return l.records
}

// Find returns the record for a machine name, if present.
func (l *Library) Find(machineName string) (Record, bool) {
	i, ok := l.index[machineName]
	if !ok {
		return Record{}, false
	}
	return l.records[i], true
}

// Load reads library.json. A missing file leaves the library empty; that is
// the normal first run.
func (l *Library) Load() error {
	raw, err := os.ReadFile(l.statePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return services.Wrap(services.ErrFilesystem, "library", "read state", l.statePath, err)
	}

	var file libraryFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return services.Wrap(services.ErrParse, "library", "decode state", l.statePath, err)
	}

	l.records = file.Games
	l.index = make(map[string]int, len(file.Games))
	for i, record := range l.records {
		l.index[record.MachineName] = i
	}
	return nil
}

// Save writes library.json atomically, recomputing the summary counts.
func (l *Library) Save() error {
	file := libraryFile{
		Root:      l.root,
		Downloads: l.downloads,
		Total:     len(l.records),
		Games:     l.records,
	}
	for _, record := range l.records {
		if record.Downloaded {
			file.NumberDownloaded++
		}
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrParse, "library", "encode state", l.statePath, err)
	}
	if err := os.MkdirAll(filepath.Dir(l.statePath), 0o755); err != nil {
		return services.Wrap(services.ErrFilesystem, "library", "create state directory", l.statePath, err)
	}
	if err := fileutil.WriteFileAtomic(l.statePath, data, 0o644); err != nil {
		return services.Wrap(services.ErrFilesystem, "library", "write state", l.statePath, err)
	}
	return nil
}

// AddFeed merges a catalog snapshot into the library. New machine names get
// fresh records; existing records have their descriptive fields refreshed
// and their last-seen date bumped. Records whose machine name has left the
// catalog are flagged, never deleted. Idempotent for a given snapshot.
func (l *Library) AddFeed(snapshot *feed.Snapshot) error {
	today := l.now().UTC().Format(dateLayout)
	added := 0

	for _, product := range snapshot.Products {
		if i, ok := l.index[product.MachineName]; ok {
			_, download, err := selectDownload(product, l.platformPriority)
			if err != nil {
				return err
			}
			l.records[i].refreshFrom(product, download)
			l.records[i].LastSeenOn = today
			l.records[i].RemovedFromCatalog = false
			continue
		}

		record, err := newRecord(product, l.platformPriority, l.now())
		if err != nil {
			return err
		}
		l.index[record.MachineName] = len(l.records)
		l.records = append(l.records, record)
		added++
	}

	removed := 0
	for i := range l.records {
		if !snapshot.Contains(l.records[i].MachineName) && !l.records[i].RemovedFromCatalog {
			l.records[i].RemovedFromCatalog = true
			removed++
		}
	}

	l.logger.Info("catalog merged",
		logging.Int("total", len(l.records)),
		logging.Int("added", added),
		logging.Int("removed_from_catalog", removed))
	return nil
}

// UpdateDownloadStatus recomputes each record's downloaded flag from the
// presence of its expected filename in the library root. Pure recompute,
// safe to run any number of times.
func (l *Library) UpdateDownloadStatus() {
	for i := range l.records {
		l.records[i].Downloaded = fileutil.Exists(filepath.Join(l.root, l.records[i].Filename))
	}
}

// Downloaded returns the records whose installer is present in the root.
func (l *Library) Downloaded() []Record {
	return l.filter(func(r Record) bool { return r.Downloaded })
}

// NotDownloaded returns the records whose installer is absent.
func (l *Library) NotDownloaded() []Record {
	return l.filter(func(r Record) bool { return !r.Downloaded })
}

func (l *Library) filter(keep func(Record) bool) []Record {
	var out []Record
	for _, record := range l.records {
		if keep(record) {
			out = append(out, record)
		}
	}
	return out
}

// StrayDownloads returns the expected filenames sitting in the downloads
// directory that have not yet been moved into the library root.
func (l *Library) StrayDownloads() []string {
	var stray []string
	for _, record := range l.records {
		if record.Filename == "" {
			continue
		}
		inDownloads := fileutil.Exists(filepath.Join(l.downloads, record.Filename))
		inRoot := fileutil.Exists(filepath.Join(l.root, record.Filename))
		if inDownloads && !inRoot {
			stray = append(stray, record.Filename)
		}
	}
	return stray
}

// MoveDownloads relocates every record file found in the downloads
// directory into the library root. An existing destination is never
// overwritten: the file is skipped and reported, both copies left in
// place. Each move is a verified copy followed by a source delete; the
// source is only removed after the copy checks out, so a failure leaves
// the original in place. The copy and delete are separate steps, not an
// atomic rename, since the two directories may sit on different
// filesystems. Failures are logged per file and do not stop the
// remaining moves.
func (l *Library) MoveDownloads() (moved, unmoved []string) {
	for _, record := range l.records {
		if record.Filename == "" {
			continue
		}
		src := filepath.Join(l.downloads, record.Filename)
		if !fileutil.Exists(src) {
			continue
		}
		filename := record.Filename
		dst := filepath.Join(l.root, filename)

		if fileutil.Exists(dst) {
			l.logger.Warn("destination exists, not overwriting",
				logging.String(logging.FieldPath, dst))
			unmoved = append(unmoved, filename)
			continue
		}

		if err := fileutil.CopyFileVerified(src, dst); err != nil {
			l.logger.Error("copy failed, source left in place",
				logging.String(logging.FieldPath, src), logging.Error(err))
			unmoved = append(unmoved, filename)
			continue
		}
		if err := os.Remove(src); err != nil {
			l.logger.Error("source delete failed after copy",
				logging.String(logging.FieldPath, src), logging.Error(err))
			unmoved = append(unmoved, filename)
			continue
		}

		l.logger.Info("download moved into library",
			logging.String(logging.FieldPath, dst))
		moved = append(moved, filename)
	}
	return moved, unmoved
}

package library

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"github.com/spf13/afero"

	"mkvlang/internal/logging"
)

// DefaultExtension is the container suffix matched when none is configured.
const DefaultExtension = ".mkv"

// Scanner walks a filesystem for files with a given extension.
type Scanner struct {
	fs        afero.Fs
	extension string
	logger    *slog.Logger
}

// NewScanner builds a Scanner over fsys. A nil fsys uses the OS filesystem and
// an empty extension uses DefaultExtension.
func NewScanner(fsys afero.Fs, extension string, logger *slog.Logger) *Scanner {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	extension = strings.TrimSpace(extension)
	if extension == "" {
		extension = DefaultExtension
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Scanner{
		fs:        fsys,
		extension: extension,
		logger:    logging.NewComponentLogger(logger, "library"),
	}
}

// MatchesExtension reports whether name ends in ext, ignoring letter case.
func MatchesExtension(name, ext string) bool {
	if ext == "" || len(name) < len(ext) {
		return false
	}
	return strings.EqualFold(name[len(name)-len(ext):], ext)
}

// Scan returns every regular file under root whose name ends in the
// configured extension, in walk order. Entries of each directory are visited
// in natural name order, so ep2 precedes ep10 and a subdirectory's files are
// listed where the subdirectory sits among its siblings. An unreadable root
// fails the scan; unreadable subdirectories are logged and skipped.
func (s *Scanner) Scan(root string) ([]string, error) {
	root = filepath.Clean(root)
	info, err := s.fs.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	var matches []string
	if !info.IsDir() {
		if info.Mode().IsRegular() && MatchesExtension(info.Name(), s.extension) {
			matches = append(matches, root)
		}
		return matches, nil
	}
	if err := s.walk(root, &matches); err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	s.logger.Debug("library scan complete",
		logging.String("root", root),
		logging.Int("matches", len(matches)),
	)
	return matches, nil
}

func (s *Scanner) walk(dir string, matches *[]string) error {
	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return natural.Less(entries[i].Name(), entries[j].Name())
	})
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		switch {
		case entry.IsDir():
			if err := s.walk(path, matches); err != nil {
				logging.WarnWithContext(s.logger, "skipping unreadable path", "library_walk_skip",
					logging.String(logging.FieldFile, path),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check directory permissions"),
					logging.String(logging.FieldImpact, "containers below this path are not processed"),
				)
			}
		case entry.Mode().IsRegular() && MatchesExtension(entry.Name(), s.extension):
			*matches = append(*matches, path)
		}
	}
	return nil
}

package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/framefighter/inspection-idle/config"
)

// Rejection is one attach request the joint spawner refused.
type Rejection struct {
	Tick   int32  `csv:"tick"`
	Entity uint32 `csv:"entity"`
	Item   string `csv:"item"`
	Parent uint32 `csv:"parent"`
	Point  string `csv:"point"`
	Reason string `csv:"reason"`
}

// csvStream appends records of one type to a CSV file, writing the header
// with the first record.
type csvStream[T any] struct {
	name   string
	file   *os.File
	header bool
}

func openStream[T any](dir, name string) (*csvStream[T], error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvStream[T]{name: name, file: f}, nil
}

func (s *csvStream[T]) write(rec T) error {
	records := []T{rec}
	var err error
	if s.header {
		err = gocsv.MarshalWithoutHeaders(records, s.file)
	} else {
		err = gocsv.Marshal(records, s.file)
		s.header = err == nil
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", s.name, err)
	}
	return nil
}

func (s *csvStream[T]) close() error {
	if s == nil {
		return nil
	}
	return s.file.Close()
}

// OutputManager writes the run directory: the effective config, window
// telemetry, perf samples, bookmarks and rejected attach requests.
// A nil manager ignores every write.
type OutputManager struct {
	dir        string
	telemetry  *csvStream[WindowStats]
	perf       *csvStream[PerfStatsCSV]
	bookmarks  *csvStream[Bookmark]
	rejections *csvStream[Rejection]
}

// NewOutputManager creates the output directory and its CSV files.
// It returns nil when dir is empty.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	var err error
	if om.telemetry, err = openStream[WindowStats](dir, "telemetry.csv"); err != nil {
		return nil, err
	}
	if om.perf, err = openStream[PerfStatsCSV](dir, "perf.csv"); err != nil {
		om.Close()
		return nil, err
	}
	if om.bookmarks, err = openStream[Bookmark](dir, "bookmarks.csv"); err != nil {
		om.Close()
		return nil, err
	}
	if om.rejections, err = openStream[Rejection](dir, "rejections.csv"); err != nil {
		om.Close()
		return nil, err
	}
	return om, nil
}

// WriteConfig saves the effective configuration as config.yaml.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry appends a closed stats window.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	return om.telemetry.write(stats)
}

// WritePerf appends the perf window ending at windowEnd.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	return om.perf.write(stats.ToCSV(windowEnd))
}

// WriteBookmark appends a detected bookmark.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	return om.bookmarks.write(b)
}

// WriteRejection appends a rejected attach request.
func (om *OutputManager) WriteRejection(r Rejection) error {
	if om == nil {
		return nil
	}
	return om.rejections.write(r)
}

// Dir returns the output directory, empty when output is disabled.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes every open file.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	return errors.Join(
		om.telemetry.close(),
		om.perf.close(),
		om.bookmarks.close(),
		om.rejections.close(),
	)
}

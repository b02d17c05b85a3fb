// Package datalog writes collected metric data into a rotating set of
// files: a size- and count-bounded sequence of text data files plus a JSON
// metadata file recording the collection session lifecycle. Every record
// is echoed to a live console sink as it is persisted.
package datalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"codeberg.org/mutker/thermalogd/internal/errors"
	"github.com/rs/zerolog"
)

// Logger is the rotating data file writer. Construct one per data
// directory with New; do not share a single instance between independent
// collection sessions.
type Logger struct {
	mu        sync.Mutex
	fileSet   FileSet
	policy    RotationPolicy
	minLevel  Severity
	file      *os.File
	size      int64
	console   zerolog.Logger
	meta      *Metadata
	metaStore *MetadataStore
}

var _ DataLogger = (*Logger)(nil)

// New sets up the rotating data file mechanism under cfg.Dir, creating the
// directory if needed. Construction against an existing directory is
// idempotent: prior data files are kept and the active file is appended
// to. A directory that cannot be created or accessed is fatal.
func New(cfg Config) (*Logger, error) {
	errFactory := errors.New()

	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.Dir, defaultDirPerm); err != nil {
		return nil, errFactory.Wrap(ErrDirectoryUnavailable, err)
	}

	fs := FileSet{Dir: cfg.Dir, Base: cfg.BaseFileName}
	file, size, err := openActive(fs)
	if err != nil {
		return nil, err
	}

	console := cfg.Console
	if console == nil {
		console = os.Stdout
	}
	// Data echo lines carry no timestamp of their own; the session
	// banners hold the wall-clock context.
	out := zerolog.ConsoleWriter{Out: console, NoColor: true}
	out.FormatTimestamp = func(_ interface{}) string {
		return ""
	}

	return &Logger{
		fileSet: fs,
		policy: RotationPolicy{
			MaxFileSizeBytes: cfg.MaxFileSizeBytes,
			MaxFileCount:     cfg.MaxFileCount,
		},
		minLevel:  SeverityInfo,
		file:      file,
		size:      size,
		console:   zerolog.New(out),
		meta:      NewMetadata(),
		metaStore: NewMetadataStore(filepath.Join(cfg.Dir, cfg.MetadataFileName)),
	}, nil
}

func openActive(fs FileSet) (*os.File, int64, error) {
	errFactory := errors.New()

	file, err := os.OpenFile(fs.Active(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, defaultFilePerm)
	if err != nil {
		return nil, 0, errFactory.Wrap(ErrSinkUnavailable, err)
	}

	var size int64
	if st, err := file.Stat(); err == nil {
		size = st.Size()
	}

	return file, size, nil
}

// SetLevel records the minimum severity threshold for subsequent writes.
func (l *Logger) SetLevel(min Severity) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minLevel = min
}

// Start stamps the collection start timestamp and updates the metadata
// file. Intended to be called exactly once, before the first Write; a
// persist failure is surfaced as an ERROR record rather than returned.
func (l *Logger) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.metaStore.Start(l.meta); err != nil {
		l.write(Record{
			Text:     fmt.Sprintf("Failed to persist collection metadata: %v", err),
			Severity: SeverityError,
		})
	}
}

// End stamps the collection end timestamp and updates the metadata file.
func (l *Logger) End() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.metaStore.End(l.meta); err != nil {
		l.write(Record{
			Text:     fmt.Sprintf("Failed to persist collection metadata: %v", err),
			Severity: SeverityError,
		})
	}
}

// Write appends one record to the active data file and echoes it to the
// console sink. Records below the severity threshold are dropped. A record
// carrying an unrecognized severity is not dropped: its text is replaced
// with an EXCEPTION-classified diagnostic naming the offending value and
// the supported vocabulary.
func (l *Logger) Write(rec Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.write(rec)
}

func (l *Logger) write(rec Record) {
	if rec.Severity.Valid() && rec.Severity < l.minLevel {
		return
	}

	var event *zerolog.Event
	switch rec.Severity {
	case SeverityInfo:
		event = l.console.Info()
	case SeverityWarning:
		event = l.console.Warn()
	case SeverityError:
		event = l.console.Error()
	case SeverityException:
		event = l.console.Error().Bool("exception", true)
	default:
		rec = Record{
			Text: fmt.Sprintf("Unknown severity '%s'. Make sure you provide one of the supported severity values: %s",
				rec.Severity, SeverityVocabulary()),
			Severity: SeverityException,
		}
		event = l.console.Error().Bool("exception", true)
	}

	event.Msg(rec.Text)
	l.append(rec.Text)
}

func (l *Logger) append(text string) {
	line := []byte(text + "\n")

	if l.policy.ShouldRotate(l.size, int64(len(line))) {
		l.rotate()
	}

	if l.file == nil {
		// Degraded: the active file could not be reopened after a
		// rotation. The console echo above already carried the record.
		return
	}

	n, err := l.file.Write(line)
	l.size += int64(n)
	if err != nil {
		l.console.Error().Err(err).Msg("Data file write failed; record kept on console only")
	}
}

// rotate closes the active file, shifts the backups and reopens a fresh
// active file. A failed shift is noted as a WARNING record but never
// blocks the pending write.
func (l *Logger) rotate() {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}

	rotErr := l.policy.Rotate(l.fileSet)

	file, err := os.OpenFile(l.fileSet.Active(), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, defaultFilePerm)
	if err != nil {
		l.console.Error().Err(err).Msg("Failed to reopen active data file after rotation")
		return
	}
	l.file = file
	l.size = 0

	if rotErr != nil {
		warning := fmt.Sprintf("File rotation incomplete, backup ordering may be inconsistent: %v", rotErr)
		l.console.Warn().Msg(warning)
		n, _ := l.file.Write([]byte(warning + "\n"))
		l.size += int64(n)
	}
}

// Reset redirects subsequent writes to a new directory; the base file name
// is kept. A zero size or count keeps the instance's current bound rather
// than reverting to package defaults. Existing files are not moved, and
// the metadata file stays at its original path. The previously active file
// handle is closed before the sink is re-pointed.
func (l *Logger) Reset(dir string, maxFileSizeBytes int64, maxFileCount int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	errFactory := errors.New()

	if dir == "" {
		return errFactory.WithMessage(ErrInvalidConfig, "data directory not set")
	}

	policy := l.policy
	if maxFileSizeBytes > 0 {
		policy.MaxFileSizeBytes = maxFileSizeBytes
	}
	if maxFileCount > 0 {
		policy.MaxFileCount = maxFileCount
	}
	if err := policy.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(dir, defaultDirPerm); err != nil {
		return errFactory.Wrap(ErrDirectoryUnavailable, err)
	}

	if l.file != nil {
		if err := l.file.Close(); err != nil {
			l.console.Warn().Err(err).Msg("Closing previous data file failed")
		}
		l.file = nil
	}

	fs := FileSet{Dir: dir, Base: l.fileSet.Base}
	file, size, err := openActive(fs)
	if err != nil {
		return err
	}

	l.fileSet = fs
	l.policy = policy
	l.file = file
	l.size = size

	return nil
}

// Metadata returns a copy of the current session document.
func (l *Logger) Metadata() Metadata {
	l.mu.Lock()
	defer l.mu.Unlock()
	return *l.meta
}

// Close releases the active file handle. The metadata file is left as last
// persisted.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}

	errFactory := errors.New()
	if err := l.file.Close(); err != nil {
		return errFactory.Wrap(ErrShutdownFailed, err)
	}
	l.file = nil

	return nil
}

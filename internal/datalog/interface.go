package datalog

// DataLogger defines the writer interface for collected records.
//
// A single logical caller is assumed: no two of these methods may run
// concurrently on the same instance from the caller's point of view.
// Rotation is a delete+rename+reopen sequence, so the implementation keeps
// its own serialization but callers must not rely on interleaved ordering.
type DataLogger interface {
	// SetLevel records the minimum severity appended to the sinks.
	// Records below it are dropped at write time; SeverityUnknown always
	// passes so misuse is surfaced.
	SetLevel(min Severity)

	// Start stamps the collection start timestamp into the metadata file.
	Start()

	// Write appends one classified record to the active data file and
	// echoes it to the console sink. Never fails past the call: rotation
	// and sink trouble is converted into classified output.
	Write(rec Record)

	// Reset redirects subsequent writes to a new directory. Zero size or
	// count keeps the instance's current bound. Existing files are not
	// moved.
	Reset(dir string, maxFileSizeBytes int64, maxFileCount int) error

	// End stamps the collection end timestamp into the metadata file.
	End()

	// Close releases the active file handle.
	Close() error
}

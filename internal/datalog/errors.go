package datalog

import "codeberg.org/mutker/thermalogd/internal/errors"

const (
	// Configuration errors
	ErrInvalidConfig    = errors.ErrorCode("datalog_invalid_config")
	ErrInvalidFileSize  = errors.ErrorCode("datalog_invalid_file_size")
	ErrInvalidFileCount = errors.ErrorCode("datalog_invalid_file_count")

	// Sink errors
	ErrDirectoryUnavailable = errors.ErrorCode("datalog_directory_unavailable")
	ErrSinkUnavailable      = errors.ErrorCode("datalog_sink_unavailable")
	ErrRotationFailed       = errors.ErrorCode("datalog_rotation_failed")

	// Metadata errors
	ErrMetadataPersist = errors.ErrorCode("datalog_metadata_persist_failed")

	// Shutdown errors
	ErrShutdownFailed = errors.ErrShutdownFailed
)

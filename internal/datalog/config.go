package datalog

import (
	"io"

	"codeberg.org/mutker/thermalogd/internal/errors"
)

const (
	DefaultBaseFileName     = "cpu_temperatures"
	DefaultMetadataFileName = "metadata.json"
	DefaultMaxFileSizeBytes = 4000
	DefaultMaxFileCount     = 10

	defaultDirPerm  = 0o755
	defaultFilePerm = 0o644
)

type Config struct {
	// Dir is the directory holding the file set and the metadata file. It
	// is created on construction if absent.
	Dir string

	BaseFileName     string
	MetadataFileName string
	MaxFileSizeBytes int64
	MaxFileCount     int

	// Console receives the live echo of every written record. Defaults to
	// stdout.
	Console io.Writer
}

func DefaultConfig(dir string) Config {
	return Config{
		Dir:              dir,
		BaseFileName:     DefaultBaseFileName,
		MetadataFileName: DefaultMetadataFileName,
		MaxFileSizeBytes: DefaultMaxFileSizeBytes,
		MaxFileCount:     DefaultMaxFileCount,
	}
}

func (c Config) withDefaults() Config {
	if c.BaseFileName == "" {
		c.BaseFileName = DefaultBaseFileName
	}
	if c.MetadataFileName == "" {
		c.MetadataFileName = DefaultMetadataFileName
	}
	if c.MaxFileSizeBytes == 0 {
		c.MaxFileSizeBytes = DefaultMaxFileSizeBytes
	}
	if c.MaxFileCount == 0 {
		c.MaxFileCount = DefaultMaxFileCount
	}
	return c
}

func (c Config) Validate() error {
	errFactory := errors.New()
	if c.Dir == "" {
		return errFactory.WithMessage(ErrInvalidConfig, "data directory not set")
	}
	policy := RotationPolicy{
		MaxFileSizeBytes: c.MaxFileSizeBytes,
		MaxFileCount:     c.MaxFileCount,
	}
	return policy.Validate()
}

package datalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"codeberg.org/mutker/thermalogd/internal/errors"
)

const (
	// MetadataVersion is the schema version stamped into every metadata
	// document.
	MetadataVersion = "1.0.0"

	// UnsetTime marks a timestamp that has not been recorded yet. Legacy
	// consumers expect -1 rather than null.
	UnsetTime float64 = -1

	metadataFilePerm = 0o644
)

// Metadata records the lifecycle of one collection session. Timestamps are
// wall-clock seconds since the epoch.
type Metadata struct {
	Version         string  `json:"__data_collection_version"`
	CollectionStart float64 `json:"collection_start"`
	CollectionEnd   float64 `json:"collection_end"`
}

// NewMetadata returns a fresh document with both timestamps unset.
func NewMetadata() *Metadata {
	return &Metadata{
		Version:         MetadataVersion,
		CollectionStart: UnsetTime,
		CollectionEnd:   UnsetTime,
	}
}

// MetadataStore serializes a metadata document to a fixed path on every
// mutation, so a crash mid-run still leaves a valid partial record.
type MetadataStore struct {
	path string
}

func NewMetadataStore(path string) *MetadataStore {
	return &MetadataStore{path: path}
}

func (s *MetadataStore) Path() string {
	return s.path
}

// Persist writes the full document as indented JSON, replacing any prior
// content atomically (temp file then rename) so a crash cannot tear it.
func (s *MetadataStore) Persist(doc *Metadata) error {
	errFactory := errors.New()

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return errFactory.Wrap(ErrMetadataPersist, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp")
	if err != nil {
		return errFactory.Wrap(ErrMetadataPersist, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errFactory.Wrap(ErrMetadataPersist, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errFactory.Wrap(ErrMetadataPersist, err)
	}
	if err := os.Chmod(tmp.Name(), metadataFilePerm); err != nil {
		os.Remove(tmp.Name())
		return errFactory.Wrap(ErrMetadataPersist, err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return errFactory.Wrap(ErrMetadataPersist, err)
	}

	return nil
}

// Start stamps the collection start and persists.
func (s *MetadataStore) Start(doc *Metadata) error {
	doc.CollectionStart = epochSeconds()
	return s.Persist(doc)
}

// End stamps the collection end and persists.
func (s *MetadataStore) End(doc *Metadata) error {
	doc.CollectionEnd = epochSeconds()
	return s.Persist(doc)
}

// LoadMetadata reads a previously persisted document. A missing or
// malformed file yields a fresh document rather than an error; each run is
// free to start a new session.
func LoadMetadata(path string) *Metadata {
	data, err := os.ReadFile(path)
	if err != nil {
		return NewMetadata()
	}

	doc := NewMetadata()
	if err := json.Unmarshal(data, doc); err != nil {
		return NewMetadata()
	}
	return doc
}

func epochSeconds() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

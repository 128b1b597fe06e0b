package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/studysync/coursesync/internal/offering"
)

// FileStore keeps a collection as a JSON document on disk at
// <dir>/<database>/<collection>.json. Every write rewrites the file.
type FileStore struct {
	mu   sync.Mutex
	path string
	data *collectionFile
}

// collectionFile is the on-disk layout of a FileStore collection
type collectionFile struct {
	Documents map[string]offering.Record `json:"documents"` // keyed by class number
	UpdatedAt string                     `json:"updated_at"`
}

// NewFileStore opens or creates the collection file
func NewFileStore(dir, database, collection string) (*FileStore, error) {
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}
	if dir == "" {
		return nil, fmt.Errorf("%w: file store needs a directory", ErrInvalidURI)
	}
	if database == "" {
		database = DefaultDatabase
	}
	if collection == "" {
		collection = DefaultCollection
	}

	dbDir := filepath.Join(dir, database)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	s := &FileStore{path: filepath.Join(dbDir, collection+".json")}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the collection file location
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = &collectionFile{Documents: make(map[string]offering.Record)}
			return nil
		}
		return fmt.Errorf("reading collection: %w", err)
	}

	var file collectionFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing collection: %w", err)
	}
	if file.Documents == nil {
		file.Documents = make(map[string]offering.Record)
	}
	s.data = &file
	return nil
}

// save writes the collection; on error the in-memory documents are left for
// the caller to roll back
func (s *FileStore) save() error {
	file := *s.data
	file.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(&file, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding collection: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing collection: %w", err)
	}
	s.data.UpdatedAt = file.UpdatedAt
	return nil
}

// FindByClassNumber returns the stored record or ErrNotFound
func (s *FileStore) FindByClassNumber(ctx context.Context, classNumber string) (offering.Record, error) {
	if err := ctx.Err(); err != nil {
		return offering.Record{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.data.Documents[classNumber]
	if !ok {
		return offering.Record{}, fmt.Errorf("%w: %s", ErrNotFound, classNumber)
	}
	return rec, nil
}

// Insert adds a record; the class number must not already be stored
func (s *FileStore) Insert(ctx context.Context, rec offering.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data.Documents[rec.ClassNumber]; exists {
		return fmt.Errorf("inserting %s: duplicate class number", rec.ClassNumber)
	}
	s.data.Documents[rec.ClassNumber] = rec
	if err := s.save(); err != nil {
		delete(s.data.Documents, rec.ClassNumber)
		return err
	}
	return nil
}

// Replace overwrites a stored record
func (s *FileStore) Replace(ctx context.Context, rec offering.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, exists := s.data.Documents[rec.ClassNumber]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, rec.ClassNumber)
	}
	s.data.Documents[rec.ClassNumber] = rec
	if err := s.save(); err != nil {
		s.data.Documents[rec.ClassNumber] = previous
		return err
	}
	return nil
}

// List returns all records sorted by class number
func (s *FileStore) List(ctx context.Context) ([]offering.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]offering.Record, 0, len(s.data.Documents))
	for _, rec := range s.data.Documents {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].ClassNumber < records[j].ClassNumber
	})
	return records, nil
}

// Close is a no-op; every write is already on disk
func (s *FileStore) Close(context.Context) error {
	return nil
}

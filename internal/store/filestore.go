package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"hesabyar/internal/format"
	"hesabyar/internal/models"
)

// FileStore keeps the document as one JSON file on the local device,
// the equivalent of the old browser local-storage key.
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore points the store at a JSON file path.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Load reads the document file. A missing file seeds the hardcoded
// default document and writes it back so the next load finds it.
func (f *FileStore) Load(_ context.Context) (models.AppData, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		f.logger.Info("no document file found, seeding defaults", zap.String("path", f.path))
		seed := models.DefaultData(format.TodayJalali().String())
		if writeErr := f.write(seed); writeErr != nil {
			f.logger.Warn("could not write seeded document", zap.Error(writeErr))
		}
		return seed, nil
	}
	if err != nil {
		return models.AppData{}, fmt.Errorf("read document file: %w", err)
	}

	var data models.AppData
	if err := json.Unmarshal(raw, &data); err != nil {
		return models.AppData{}, fmt.Errorf("decode document file: %w", err)
	}
	return data, nil
}

// Save overwrites the document file with the full aggregate.
func (f *FileStore) Save(_ context.Context, data models.AppData) error {
	return f.write(data)
}

func (f *FileStore) write(data models.AppData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := os.WriteFile(f.path, raw, 0o644); err != nil {
		return fmt.Errorf("write document file: %w", err)
	}
	return nil
}

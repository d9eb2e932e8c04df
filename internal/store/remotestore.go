package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"resty.dev/v3"

	"hesabyar/internal/models"
)

// RemoteStore talks to the minimal document protocol another hesabyar
// instance (or any compatible host) exposes: GET returns the stored
// document or a seeded default, PUT replaces it unconditionally. One
// best-effort request per operation, no retry, no conflict detection.
type RemoteStore struct {
	client *resty.Client
	url    string
	logger *zap.Logger
}

// NewRemoteStore points the store at a document endpoint URL, e.g.
// "http://host:8080/api/document".
func NewRemoteStore(url string, logger *zap.Logger) *RemoteStore {
	client := resty.New().SetTimeout(15 * time.Second)
	return &RemoteStore{client: client, url: url, logger: logger}
}

// Load fetches the remote document. Seeding on absence is the remote
// endpoint's job, so any non-2xx answer is an error here.
func (r *RemoteStore) Load(ctx context.Context) (models.AppData, error) {
	var data models.AppData
	res, err := r.client.R().
		SetContext(ctx).
		SetResult(&data).
		Get(r.url)
	if err != nil {
		return models.AppData{}, fmt.Errorf("fetch remote document: %w", err)
	}
	if res.IsError() {
		return models.AppData{}, fmt.Errorf("fetch remote document: endpoint returned %s", res.Status())
	}
	return data, nil
}

// Save replaces the remote document with the full aggregate.
func (r *RemoteStore) Save(ctx context.Context, data models.AppData) error {
	res, err := r.client.R().
		SetContext(ctx).
		SetBody(data).
		Put(r.url)
	if err != nil {
		return fmt.Errorf("replace remote document: %w", err)
	}
	if res.IsError() {
		return fmt.Errorf("replace remote document: endpoint returned %s", res.Status())
	}
	r.logger.Debug("remote document replaced", zap.String("url", r.url))
	return nil
}

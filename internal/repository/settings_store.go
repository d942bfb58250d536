package repository

import (
	"context"
	"errors"
	"fmt"

	"ViralGen/internal/domain/models"
	domrepo "ViralGen/internal/domain/repository"
	"ViralGen/pkg/cache"
)

// CacheSettingsStore keeps the vault as one JSON document under a fixed key.
type CacheSettingsStore struct {
	cache    cache.Service
	key      string
	defaults models.Settings
}

func NewCacheSettingsStore(c cache.Service, key string, defaults models.Settings) *CacheSettingsStore {
	return &CacheSettingsStore{cache: c, key: key, defaults: defaults}
}

// Load returns the stored vault, or the defaults when nothing was saved yet.
func (s *CacheSettingsStore) Load(ctx context.Context) (models.Settings, error) {
	var out models.Settings
	if err := s.cache.Get(ctx, s.key, &out); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return s.defaults, nil
		}
		return models.Settings{}, fmt.Errorf("load vault: %w", err)
	}
	return out, nil
}

func (s *CacheSettingsStore) Save(ctx context.Context, v models.Settings) error {
	if err := s.cache.Set(ctx, s.key, v, 0); err != nil {
		return fmt.Errorf("save vault: %w", err)
	}
	return nil
}

var _ domrepo.SettingsStore = (*CacheSettingsStore)(nil)

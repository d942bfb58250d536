package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	domrepo "ViralGen/internal/domain/repository"
	"ViralGen/pkg/cache"

	"github.com/google/uuid"
)

var ErrAssetNotFound = errors.New("asset not found")

const assetNamespace = "asset"

type assetRecord struct {
	MimeType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

// CacheAssetStore keeps generated images and WAVs in the cache for ttl.
type CacheAssetStore struct {
	cache cache.Service
	ttl   time.Duration
}

func NewCacheAssetStore(c cache.Service, ttl time.Duration) *CacheAssetStore {
	return &CacheAssetStore{cache: c, ttl: ttl}
}

func (s *CacheAssetStore) Put(ctx context.Context, data []byte, mimeType string) (string, error) {
	id := uuid.NewString()
	if err := s.cache.Set(ctx, cache.Key(assetNamespace, id), assetRecord{MimeType: mimeType, Data: data}, s.ttl); err != nil {
		return "", fmt.Errorf("put asset: %w", err)
	}
	return id, nil
}

func (s *CacheAssetStore) Get(ctx context.Context, id string) ([]byte, string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, "", ErrAssetNotFound
	}
	var rec assetRecord
	if err := s.cache.Get(ctx, cache.Key(assetNamespace, id), &rec); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, "", ErrAssetNotFound
		}
		return nil, "", fmt.Errorf("get asset: %w", err)
	}
	return rec.Data, rec.MimeType, nil
}

var _ domrepo.AssetStore = (*CacheAssetStore)(nil)

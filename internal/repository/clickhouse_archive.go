package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"ViralGen/internal/domain/models"
	domrepo "ViralGen/internal/domain/repository"
	applogger "ViralGen/pkg/logger"
)

const (
	signalsTable  = "signals"
	contentsTable = "contents"
)

// ArchiveSchema is the idempotent DDL for the archive tables.
// ReplacingMergeTree collapses redeliveries of the same id.
var ArchiveSchema = []string{
	`CREATE TABLE IF NOT EXISTS signals (
		id String,
		ts DateTime64(3),
		pair LowCardinality(String),
		action LowCardinality(String),
		entry Float64,
		tp Float64,
		sl Float64,
		reasoning String,
		video_hook String
	) ENGINE = ReplacingMergeTree
	ORDER BY (pair, ts, id)`,
	`CREATE TABLE IF NOT EXISTS contents (
		id String,
		ts DateTime64(3),
		niche LowCardinality(String),
		hook String,
		title String,
		description String,
		tags Array(String),
		has_audio UInt8,
		projected_views Int64,
		estimated_revenue Float64,
		engagement_rate Float64,
		platforms String
	) ENGINE = ReplacingMergeTree
	ORDER BY (niche, ts, id)`,
}

// Pinger reports store health.
type Pinger interface {
	Health(ctx context.Context) error
}

// ClickHouseArchive writes committed results to ClickHouse.
type ClickHouseArchive struct {
	db     *sql.DB
	health Pinger
	l      *applogger.Logger
}

func NewClickHouseArchive(db *sql.DB, health Pinger, l *applogger.Logger) *ClickHouseArchive {
	if l == nil {
		l = applogger.Nop()
	}
	return &ClickHouseArchive{db: db, health: health, l: l.Component("clickhouse-archive")}
}

func (a *ClickHouseArchive) Init(ctx context.Context) error {
	for _, stmt := range ArchiveSchema {
		if _, err := a.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init archive schema: %w", err)
		}
	}
	return nil
}

func (a *ClickHouseArchive) StoreSignal(ctx context.Context, s models.TradingSignal) error {
	q := fmt.Sprintf("INSERT INTO %s (id, ts, pair, action, entry, tp, sl, reasoning, video_hook) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)", signalsTable)
	if _, err := a.db.ExecContext(ctx, q, signalArgs(s)...); err != nil {
		a.l.Error("clickhouse insert signal failed", applogger.String("id", s.ID), applogger.Error(err))
		return fmt.Errorf("store signal: %w", err)
	}
	return nil
}

func (a *ClickHouseArchive) StoreContent(ctx context.Context, r models.GenerationResult) error {
	args, err := contentArgs(r)
	if err != nil {
		return err
	}
	q := fmt.Sprintf("INSERT INTO %s (id, ts, niche, hook, title, description, tags, has_audio, projected_views, estimated_revenue, engagement_rate, platforms) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", contentsTable)
	if _, err := a.db.ExecContext(ctx, q, args...); err != nil {
		a.l.Error("clickhouse insert content failed", applogger.String("id", r.ID), applogger.Error(err))
		return fmt.Errorf("store content: %w", err)
	}
	return nil
}

func (a *ClickHouseArchive) Health(ctx context.Context) error { return a.health.Health(ctx) }

func (a *ClickHouseArchive) Close() error { return a.db.Close() }

func signalArgs(s models.TradingSignal) []interface{} {
	return []interface{}{
		s.ID,
		time.UnixMilli(s.Timestamp).UTC(),
		s.Pair,
		string(s.Action),
		s.Entry,
		s.TP,
		s.SL,
		s.Reasoning,
		s.VideoHook,
	}
}

func contentArgs(r models.GenerationResult) ([]interface{}, error) {
	platforms, err := json.Marshal(r.Platforms)
	if err != nil {
		return nil, fmt.Errorf("encode platforms: %w", err)
	}
	tags := r.Metadata.Tags
	if tags == nil {
		tags = []string{}
	}
	var hasAudio uint8
	if r.AudioURL != "" {
		hasAudio = 1
	}
	return []interface{}{
		r.ID,
		time.UnixMilli(r.Timestamp).UTC(),
		string(r.Niche),
		r.Hook,
		r.Metadata.Title,
		r.Metadata.Description,
		tags,
		hasAudio,
		r.Analytics.ProjectedViews,
		r.Analytics.EstimatedRevenue,
		r.Analytics.EngagementRate,
		string(platforms),
	}, nil
}

var _ domrepo.Archive = (*ClickHouseArchive)(nil)

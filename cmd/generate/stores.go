package main

import (
	"context"
	"fmt"
	"os"

	"lotto-cover-lab/internal/config"
	"lotto-cover-lab/internal/domain"
	"lotto-cover-lab/internal/history"
	"lotto-cover-lab/internal/storage"
	chstore "lotto-cover-lab/internal/storage/clickhouse"
	"lotto-cover-lab/internal/storage/memory"
	pgstore "lotto-cover-lab/internal/storage/postgres"
)

// stores holds the backends for one invocation.
type stores struct {
	draws      storage.DrawStore
	ranks      storage.RankProfileStore
	runs       storage.RunStore
	candidates storage.CandidateStore
	backend    string

	closers []func()
}

// Close releases database connections.
func (s *stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// openStores connects to PostgreSQL and ClickHouse when DSNs are set and
// falls back to memory stores otherwise. drawsFile seeds the in-memory draw
// store and is ignored when PostgreSQL is used.
func openStores(ctx context.Context, cfg config.StorageConfig, drawsFile string, u domain.Universe) (*stores, error) {
	s := &stores{
		draws:      memory.NewDrawStore(),
		ranks:      memory.NewRankProfileStore(),
		runs:       memory.NewRunStore(),
		candidates: memory.NewCandidateStore(),
		backend:    "memory",
	}

	if cfg.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, pool.Close)
		s.draws = pgstore.NewDrawStore(pool)
		s.ranks = pgstore.NewRankProfileStore(pool)
		s.runs = pgstore.NewRunStore(pool)
		s.backend = "postgres"
	} else if drawsFile != "" {
		if err := loadDraws(ctx, s.draws, drawsFile, u); err != nil {
			return nil, err
		}
	}

	if cfg.ClickhouseDSN != "" {
		conn, err := chstore.NewConn(ctx, cfg.ClickhouseDSN)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.closers = append(s.closers, func() { conn.Close() })
		s.candidates = chstore.NewCandidateStore(conn)
		s.backend += "+clickhouse"
	}

	return s, nil
}

func loadDraws(ctx context.Context, store storage.DrawStore, path string, u domain.Universe) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open draws file: %w", err)
	}
	defer f.Close()

	draws, err := history.ReadDraws(f, u)
	if err != nil {
		return fmt.Errorf("read draws file %s: %w", path, err)
	}
	if err := store.InsertBulk(ctx, draws); err != nil {
		return fmt.Errorf("load draws: %w", err)
	}
	return nil
}

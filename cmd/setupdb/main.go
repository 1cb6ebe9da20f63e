// Package main prepares the databases: migrations, rank profile seeding,
// draw import and table status.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"lotto-cover-lab/internal/domain"
	"lotto-cover-lab/internal/history"
	"lotto-cover-lab/internal/storage"
	"lotto-cover-lab/internal/storage/migrations"
	pgstore "lotto-cover-lab/internal/storage/postgres"
)

func main() {
	envFile := flag.String("env-file", ".env", "Path to .env file (ignored if missing)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (default $LOTTO_STORAGE_POSTGRES_DSN)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (default $LOTTO_STORAGE_CLICKHOUSE_DSN)")
	migrate := flag.Bool("migrate", false, "Apply embedded migrations")
	seedRank := flag.Bool("seed-rank", false, "Store the default rank profile if none is stored")
	rankCounts := flag.String("rank-counts", "", "Replace rank counts with a comma-separated list, one per number")
	rankLimits := flag.String("rank-limits", "", "Replace rank limits with a comma-separated list of 8 values")
	importDraws := flag.String("import-draws", "", "CSV file of draws (date,b1..bk) to import")
	n := flag.Int("n", domain.DefaultN, "Largest drawable number")
	k := flag.Int("k", domain.DefaultK, "Numbers per draw")
	flag.Parse()

	logger := log.New(os.Stderr, "[setupdb] ", log.LstdFlags)

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Fatalf("load env file %s: %v", *envFile, err)
	}
	if *postgresDSN == "" {
		*postgresDSN = os.Getenv("LOTTO_STORAGE_POSTGRES_DSN")
	}
	if *clickhouseDSN == "" {
		*clickhouseDSN = os.Getenv("LOTTO_STORAGE_CLICKHOUSE_DSN")
	}
	if *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required")
	}

	u := domain.Universe{N: *n, K: *k}
	if err := u.Validate(); err != nil {
		logger.Fatalf("invalid universe: %v", err)
	}

	ctx := context.Background()

	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		logger.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if *migrate {
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatalf("postgres migrations: %v", err)
		}
		logger.Println("postgres migrations applied")

		if *clickhouseDSN != "" {
			conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
			if err != nil {
				logger.Fatalf("clickhouse migrations: %v", err)
			}
			conn.Close()
			logger.Println("clickhouse migrations applied")
		}
	}

	draws := pgstore.NewDrawStore(pool)
	ranks := pgstore.NewRankProfileStore(pool)

	if *seedRank {
		seeded, err := seedRankProfile(ctx, ranks, u)
		if err != nil {
			logger.Fatalf("seed rank profile: %v", err)
		}
		if seeded {
			logger.Println("default rank profile stored")
		} else {
			logger.Println("rank profile already present, not seeded")
		}
	}

	if *rankCounts != "" || *rankLimits != "" {
		if err := updateRankProfile(ctx, ranks, u, *rankCounts, *rankLimits); err != nil {
			logger.Fatalf("update rank profile: %v", err)
		}
		logger.Println("rank profile updated")
	}

	if *importDraws != "" {
		f, err := os.Open(*importDraws)
		if err != nil {
			logger.Fatalf("open draws file: %v", err)
		}
		parsed, err := history.ReadDraws(f, u)
		f.Close()
		if err != nil {
			logger.Fatalf("read draws: %v", err)
		}
		if err := draws.InsertBulk(ctx, parsed); err != nil {
			logger.Fatalf("import draws: %v", err)
		}
		logger.Printf("imported %d draws", len(parsed))
	}

	if err := printStatus(ctx, draws, ranks, u); err != nil {
		logger.Fatalf("status: %v", err)
	}
}

// seedRankProfile stores the default profile unless one exists.
func seedRankProfile(ctx context.Context, store storage.RankProfileStore, u domain.Universe) (bool, error) {
	if _, err := store.Get(ctx); err == nil {
		return false, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return false, err
	}
	p := domain.DefaultRankProfile(u)
	return true, store.Save(ctx, &p)
}

// updateRankProfile replaces the counts and/or limits of the stored profile,
// starting from the default profile when none is stored.
func updateRankProfile(ctx context.Context, store storage.RankProfileStore, u domain.Universe, counts, limits string) error {
	p, err := store.Get(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		def := domain.DefaultRankProfile(u)
		p = &def
	} else if err != nil {
		return err
	}

	if counts != "" {
		if p.Counts, err = parseInts(counts); err != nil {
			return fmt.Errorf("rank counts: %w", err)
		}
	}
	if limits != "" {
		if p.Limits, err = parseInts(limits); err != nil {
			return fmt.Errorf("rank limits: %w", err)
		}
	}
	if err := p.Validate(u); err != nil {
		return err
	}
	return store.Save(ctx, p)
}

func parseInts(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", part, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func printStatus(ctx context.Context, draws storage.DrawStore, ranks storage.RankProfileStore, u domain.Universe) error {
	count, err := draws.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("draws:        %d\n", count)

	if count > 0 {
		newest, err := draws.Recent(ctx, 1)
		if err != nil {
			return err
		}
		fmt.Printf("newest draw:  %s %s\n", newest[0].DrawDate.Format("2006-01-02"), newest[0].Numbers.Key())
	}

	p, err := ranks.Get(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		fmt.Println("rank profile: missing (defaults will be used)")
	case err != nil:
		return err
	case p.Validate(u) != nil:
		fmt.Printf("rank profile: invalid for %d/%d (%v)\n", u.K, u.N, p.Validate(u))
	default:
		fmt.Printf("rank profile: %d limits, %d counts\n", len(p.Limits), len(p.Counts))
	}
	return nil
}

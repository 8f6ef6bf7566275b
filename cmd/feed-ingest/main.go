package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ormolu/antiq-storefront/internal/domain/product"
	"github.com/ormolu/antiq-storefront/internal/storage/postgres"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	progressEvery = 100_000
)

// feedLine is one record of a supplier catalog feed: gzip-compressed
// JSON lines, one product per line.
type feedLine struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Brand       string          `json:"brand"`
	Picture     string          `json:"picture"`
	Description string          `json:"description"`
}

func main() {
	var (
		feedDir     string
		databaseURL string
	)

	flag.StringVar(&feedDir, "feed-dir", "feeds", "directory containing *.jsonl.gz supplier feeds")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, feedDir, databaseURL); err != nil {
		slog.Error("feed ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("feed ingest completed successfully")
}

func run(ctx context.Context, feedDir, databaseURL string) error {
	files, err := filepath.Glob(filepath.Join(feedDir, "*.jsonl.gz"))
	if err != nil {
		return errors.Wrap(err, "glob feed files")
	}
	if len(files) == 0 {
		return errors.Errorf("no *.jsonl.gz feeds found in %s", feedDir)
	}

	slog.Info("ingesting feeds", slog.Int("files", len(files)))

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	repo := postgres.NewProductRepository(pool)

	// Feeds are parsed concurrently; a single writer deduplicates SKUs and
	// upserts. Files are listed in lexical order, so earlier feeds win when
	// suppliers overlap.
	lines := make(chan feedLine, 1024)

	g, gctx := errgroup.WithContext(ctx)
	parsers, pctx := errgroup.WithContext(gctx)
	for _, f := range files {
		parsers.Go(parseFeed(pctx, f, lines))
	}
	g.Go(func() error {
		defer close(lines)
		return parsers.Wait()
	})
	g.Go(writeProducts(gctx, repo, lines))

	return g.Wait()
}

func parseFeed(ctx context.Context, path string, out chan<- feedLine) func() error {
	return func() error {
		var count uint64
		err := streamGzFile(ctx, path, func(raw string) error {
			var line feedLine
			if err := json.Unmarshal([]byte(raw), &line); err != nil {
				// Malformed lines are skipped, not fatal: supplier feeds
				// routinely carry a few broken records.
				slog.Warn("skipping malformed feed line", slog.String("file", path))
				return nil
			}
			count++
			if count%progressEvery == 0 {
				slog.Info("parse progress", slog.String("file", path), slog.Uint64("lines", count))
			}
			select {
			case out <- line:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			return errors.Wrapf(err, "parse feed %s", path)
		}

		slog.Info("feed parsed", slog.String("file", path), slog.Uint64("lines", count))
		return nil
	}
}

// writeProducts drains parsed feed lines, skipping SKUs already seen. The
// bloom filter may rarely report a fresh SKU as seen; a dropped record at the
// configured false positive rate is acceptable for catalog ingestion.
func writeProducts(ctx context.Context, repo *postgres.ProductRepository, in <-chan feedLine) func() error {
	return func() error {
		seen := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
		var written, skipped uint64

		for line := range in {
			if line.SKU == "" || line.Name == "" {
				skipped++
				continue
			}
			if seen.TestString(line.SKU) {
				skipped++
				continue
			}
			seen.AddString(line.SKU)

			if err := repo.Upsert(ctx, &product.Product{
				ID:          line.SKU,
				Name:        line.Name,
				Price:       line.Price,
				Brand:       line.Brand,
				Picture:     line.Picture,
				Description: line.Description,
			}); err != nil {
				return errors.Wrapf(err, "upsert product %s", line.SKU)
			}
			written++

			if written%progressEvery == 0 {
				slog.Info("write progress", slog.Uint64("written", written))
			}
		}

		slog.Info("write complete", slog.Uint64("written", written), slog.Uint64("skipped", skipped))
		return nil
	}
}

// streamGzFile opens a gzip-compressed file and calls fn for each line.
func streamGzFile(ctx context.Context, path string, fn func(line string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(scanner.Text()); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}

package main

import (
	"context"
	"time"

	"github.com/ZanzyTHEbar/protoscore/internal/analysis"
	"github.com/ZanzyTHEbar/protoscore/internal/config"
	"github.com/ZanzyTHEbar/protoscore/internal/database"
	"github.com/ZanzyTHEbar/protoscore/internal/errors"
)

// loadCorpus reads the benchmark corpus once, from SQLite, a file, or the
// embedded default in that order. A configured source that fails to load
// is a configuration error; there is no silent fallback to the default.
func loadCorpus(ctx context.Context, cfg config.CorpusConfig) (*analysis.Corpus, error) {
	switch {
	case cfg.DBPath != "":
		db, err := database.NewDB(cfg.DBPath)
		if err != nil {
			return nil, errors.NewConfigurationError("failed to open corpus database", err)
		}
		defer errors.SafeClose(db, "corpus database")

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		corpus, err := database.NewRepository(db).LoadCorpus(ctx)
		if err != nil {
			return nil, errors.NewConfigurationError("failed to load corpus from database", err)
		}
		return corpus, nil

	case cfg.FilePath != "":
		corpus, err := analysis.NewCorpusStore(cfg.FilePath).LoadCorpus()
		if err != nil {
			return nil, errors.NewConfigurationError("failed to load corpus file", err)
		}
		return corpus, nil

	default:
		corpus, err := analysis.DefaultCorpus()
		if err != nil {
			return nil, errors.NewConfigurationError("embedded corpus is invalid", err)
		}
		return corpus, nil
	}
}

// Command corpusctl manages the SQLite benchmark corpus read by the server
// when CORPUS_DB is set.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	urfave "github.com/urfave/cli/v2"

	"github.com/ZanzyTHEbar/protoscore/internal/analysis"
	"github.com/ZanzyTHEbar/protoscore/internal/database"
	"github.com/ZanzyTHEbar/protoscore/internal/monitoring"
)

var (
	debugFlag = &urfave.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}

	dbFlag = &urfave.StringFlag{
		Name:     "db",
		Usage:    "Path to the SQLite corpus database",
		EnvVars:  []string{"CORPUS_DB"},
		Required: true,
	}

	fileFlag = &urfave.StringFlag{
		Name:  "file",
		Usage: "YAML or JSON corpus file (default: built-in corpus)",
	}

	formatFlag = &urfave.StringFlag{
		Name:  "format",
		Usage: "Output format [yaml, json]",
		Value: "yaml",
	}
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *urfave.App {
	return &urfave.App{
		Name:            "corpusctl",
		Usage:           "Seed and inspect the benchmark corpus database",
		HideHelpCommand: true,
		Writer:          out,
		Flags:           []urfave.Flag{debugFlag},
		Before: func(c *urfave.Context) error {
			level := slog.LevelInfo
			if c.Bool(debugFlag.Name) {
				level = slog.LevelDebug
			}
			slog.SetDefault(monitoring.NewLoggerWithWriter(os.Stderr, level).Logger)
			return nil
		},
		Commands: []*urfave.Command{
			{
				Name:   "seed",
				Usage:  "Replace the database corpus with a file or the built-in corpus",
				Flags:  []urfave.Flag{dbFlag, fileFlag},
				Action: cmdSeed,
			},
			{
				Name:   "export",
				Usage:  "Write the database corpus as a corpus document",
				Flags:  []urfave.Flag{dbFlag, formatFlag},
				Action: cmdExport,
			},
			{
				Name:   "stats",
				Usage:  "Print summary statistics of the database corpus",
				Flags:  []urfave.Flag{dbFlag},
				Action: cmdStats,
			},
		},
	}
}

func openRepository(c *urfave.Context) (*database.Repository, func(), error) {
	db, err := database.NewDB(c.String(dbFlag.Name))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open corpus database: %w", err)
	}
	return database.NewRepository(db), func() { db.Close() }, nil
}

func cmdSeed(c *urfave.Context) error {
	corpus, err := analysis.NewCorpusStore(c.String(fileFlag.Name)).LoadCorpus()
	if err != nil {
		return err
	}

	repo, closeDB, err := openRepository(c)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := repo.ReplaceBenchmarkRecords(context.Background(), corpus.Records()); err != nil {
		return fmt.Errorf("failed to seed corpus: %w", err)
	}

	slog.Info("Corpus seeded", "db", c.String(dbFlag.Name), "records", corpus.Len())
	return nil
}

func cmdExport(c *urfave.Context) error {
	repo, closeDB, err := openRepository(c)
	if err != nil {
		return err
	}
	defer closeDB()

	records, err := repo.LoadBenchmarkRecords(context.Background())
	if err != nil {
		return err
	}
	return analysis.EncodeRecords(c.App.Writer, records, c.String(formatFlag.Name))
}

func cmdStats(c *urfave.Context) error {
	repo, closeDB, err := openRepository(c)
	if err != nil {
		return err
	}
	defer closeDB()

	corpus, err := repo.LoadCorpus(context.Background())
	if err != nil {
		return err
	}

	s := analysis.Summarize(corpus)
	_, err = fmt.Fprintf(c.App.Writer, "records: %d\nmin: %.1f\nmax: %.1f\nmean: %.2f\nmedian: %.2f\nmad: %.2f\n",
		s.Count, s.Min, s.Max, s.Mean, s.Median, s.MAD)
	if err != nil {
		return err
	}
	for _, p := range analysis.PhaseAverages(corpus) {
		if _, err := fmt.Fprintf(c.App.Writer, "%s: %.2f (%d)\n", p.Phase, p.Average, p.Count); err != nil {
			return err
		}
	}
	return nil
}

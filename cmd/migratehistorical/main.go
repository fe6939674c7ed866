// Command migrate-historical consolidates the legacy per-year tables
// (tournaments_2015 ... availabilities_2025) into career records, in
// referee chunks with per-referee error isolation.
//
//	migrate-historical -year-start=2015 -year-end=2025 -batch-size=50
//	migrate-historical -dry-run -debug-limit=5
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golfref/archival/internal/archive"
	"golfref/archival/internal/config"
	"golfref/archival/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	var (
		yearStart  = flag.Int("year-start", 0, "first legacy year (default from config)")
		yearEnd    = flag.Int("year-end", 0, "last legacy year (default from config)")
		batchSize  = flag.Int("batch-size", 0, "referees per chunk (default from config)")
		dryRun     = flag.Bool("dry-run", false, "compute records without persisting")
		debugLimit = flag.Int("debug-limit", 0, "log the first N computed records in full")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg := config.MustLoad()
	if *yearStart == 0 {
		*yearStart = cfg.LegacyYearStart
	}
	if *yearEnd == 0 {
		*yearEnd = cfg.LegacyYearEnd
	}
	if *batchSize == 0 {
		*batchSize = cfg.ImportBatchSize
	}

	// Long runs stay interruptible between referees.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Warn().Msg("Received shutdown signal, stopping after current referee...")
		cancel()
	}()

	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	importer := archive.NewImporter(db.Careers, db.Referees, db.Legacy)

	res, err := importer.Run(ctx, archive.ImportOptions{
		YearStart:  *yearStart,
		YearEnd:    *yearEnd,
		BatchSize:  *batchSize,
		DryRun:     *dryRun,
		DebugLimit: *debugLimit,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Historical migration failed")
	}

	fmt.Printf("migrated %d referees: tournaments=%d assignments=%d availabilities=%d skipped_slots=%d errors=%d\n",
		res.RefereesProcessed, res.TournamentsMigrated, res.AssignmentsMigrated,
		res.AvailabilitiesMigrated, res.SkippedSlots, len(res.Errors))
	for _, e := range res.Errors {
		fmt.Printf("  error: %s\n", e)
	}
	if len(res.Errors) > 0 {
		os.Exit(1)
	}
}

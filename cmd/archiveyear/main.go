// Command archive-year archives one past year of referee activity from the
// current operational schema into the per-referee career records.
//
//	archive-year -year=2024                  archive every active referee
//	archive-year -year=2024 -user=17        archive one referee
//	archive-year -year=2024 -dry-run        preview row counts only
//	archive-year -year=2024 -clear -confirm archive, then purge source rows
//
// The purge is destructive: it requires -confirm, runs only after a
// zero-error archive, and should be preceded by a verified backup.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"golfref/archival/internal/archive"
	"golfref/archival/internal/config"
	"golfref/archival/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	var (
		year    = flag.Int("year", 0, "year to archive (required, must be a past year)")
		userID  = flag.Int64("user", 0, "archive a single referee id instead of all")
		clear   = flag.Bool("clear", false, "purge the year's source rows after an error-free archive")
		confirm = flag.Bool("confirm", false, "required alongside -clear: acknowledge the purge is destructive")
		dryRun  = flag.Bool("dry-run", false, "print source row counts without archiving")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	if *year == 0 {
		log.Fatal().Msg("-year is required")
	}
	if *clear && !*confirm {
		log.Fatal().Msg("-clear is destructive: pass -confirm to acknowledge")
	}

	cfg := config.MustLoad()
	ctx := context.Background()

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

	// The reference year is read from the wall clock here, at the outermost
	// boundary, and passed down explicitly.
	refYear := time.Now().UTC().Year()

	if *dryRun {
		yi, err := db.Operational.CountsForYear(ctx, *year)
		if err != nil {
			log.Fatal().Err(err).Msg("Dry-run count query failed")
		}
		fmt.Printf("dry run for %d: tournaments=%d assignments=%d availabilities=%d\n",
			*year, yi.Tournaments.Rows, yi.Assignments.Rows, yi.Availabilities.Rows)
		return
	}

	engine := archive.NewEngine(db.Careers, db.Referees, db.Operational)

	if *userID != 0 {
		res, err := engine.ArchiveYearForUser(ctx, *userID, *year, refYear)
		if err != nil {
			log.Fatal().Err(err).Int64("referee_id", *userID).Msg("Archival failed")
		}
		fmt.Printf("archived referee %d year %d: tournaments=%d assignments=%d availabilities=%d\n",
			*userID, *year, res.TournamentsCount, res.AssignmentsCount, res.AvailabilitiesCount)
		return
	}

	res, err := engine.ArchiveYear(ctx, *year, *clear, refYear)
	if err != nil {
		log.Fatal().Err(err).Int("year", *year).Msg("Archival run failed")
	}

	fmt.Printf("archived year %d: referees=%d tournaments=%d assignments=%d availabilities=%d errors=%d\n",
		*year, res.RefereesProcessed, res.TournamentsArchived, res.AssignmentsArchived,
		res.AvailabilitiesArchived, len(res.Errors))
	for _, e := range res.Errors {
		fmt.Printf("  error: %s\n", e)
	}
	if res.Purge != nil {
		fmt.Printf("purged source rows: tournaments=%d assignments=%d availabilities=%d\n",
			res.Purge.TournamentsDeleted, res.Purge.AssignmentsDeleted, res.Purge.AvailabilitiesDeleted)
	}
	if len(res.Errors) > 0 {
		os.Exit(1)
	}
}

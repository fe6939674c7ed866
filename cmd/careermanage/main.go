// Command career-manage inspects and edits consolidated career records.
//
//	career-manage -action=show -user=17
//	career-manage -action=add -user=17 -year=2019 -tournament=301 -name="Spring Open" -club=4 -clubname="Lakeside GC" -role=Referee
//	career-manage -action=remove -user=17 -year=2019 -tournament=301
//
// Edits regenerate the derived stats and save the record as a whole.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"golfref/archival/internal/archive"
	"golfref/archival/internal/cache"
	"golfref/archival/internal/config"
	"golfref/archival/internal/models"
	"golfref/archival/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	var (
		action       = flag.String("action", "show", "show | add | remove")
		userID       = flag.Int64("user", 0, "referee id (required)")
		year         = flag.Int("year", 0, "year of the entry (add/remove)")
		tournamentID = flag.Int64("tournament", 0, "tournament id (add/remove)")
		name         = flag.String("name", "", "tournament name (add)")
		clubID       = flag.Int64("club", 0, "club id (add)")
		clubName     = flag.String("clubname", "", "club name (add)")
		role         = flag.String("role", "", "also record an assignment with this role (add)")
		startDate    = flag.String("start", "", "tournament start date, YYYY-MM-DD (add)")
		endDate      = flag.String("end", "", "tournament end date, YYYY-MM-DD (add)")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	if *userID == 0 {
		log.Fatal().Msg("-user is required")
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

	redisCache, cacheErr := cache.NewRedisCache(cache.Config{
		Host:     cfg.RedisHost,
		Port:     strconv.Itoa(cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.CacheTTL,
	})
	if cacheErr != nil {
		log.Debug().Err(cacheErr).Msg("Redis unavailable, reading records from database only")
	} else {
		defer redisCache.Close()
	}

	editor := archive.NewEditor(db.Careers, db.Referees)
	if redisCache != nil {
		editor.WithCache(redisCache)
	}

	switch *action {
	case "show":
		rec := loadRecord(ctx, db, redisCache, *userID)
		if rec == nil {
			fmt.Printf("no career record for referee %d\n", *userID)
			return
		}
		out, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to encode career record")
		}
		fmt.Println(string(out))

	case "add":
		snap := models.TournamentSnapshot{
			ID:        *tournamentID,
			Name:      *name,
			ClubID:    *clubID,
			ClubName:  *clubName,
			StartDate: parseDate(*startDate, *year, time.January),
			EndDate:   parseDate(*endDate, *year, time.December),
		}
		if err := editor.AddTournamentEntry(ctx, *userID, *year, snap, *role); err != nil {
			log.Fatal().Err(err).Msg("Failed to add tournament entry")
		}
		fmt.Printf("added tournament %d to referee %d year %d\n", *tournamentID, *userID, *year)

	case "remove":
		removed, err := editor.RemoveTournamentEntry(ctx, *userID, *year, *tournamentID)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to remove tournament entry")
		}
		if removed {
			fmt.Printf("removed tournament %d from referee %d year %d\n", *tournamentID, *userID, *year)
		} else {
			fmt.Printf("tournament %d not present for referee %d year %d\n", *tournamentID, *userID, *year)
		}

	default:
		log.Fatal().Str("action", *action).Msg("Unknown action, expected show | add | remove")
	}
}

// loadRecord reads through the cache when available.
func loadRecord(ctx context.Context, db *repository.Database, c *cache.RedisCache, refereeID int64) *models.CareerRecord {
	if c != nil {
		if rec, err := c.GetCareer(ctx, refereeID); err == nil && rec != nil {
			return rec
		}
	}

	rec, err := db.Careers.Get(ctx, refereeID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load career record")
	}
	if rec != nil && c != nil {
		if err := c.SetCareer(ctx, rec); err != nil {
			log.Debug().Err(err).Msg("Failed to cache career record")
		}
	}
	return rec
}

// parseDate falls back to the first/last day of the entry's year when the
// flag is omitted or malformed.
func parseDate(s string, year int, fallbackMonth time.Month) time.Time {
	if s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return t
		}
		log.Warn().Str("date", s).Msg("Unparseable date, using year fallback")
	}
	day := 1
	if fallbackMonth == time.December {
		day = 31
	}
	return time.Date(year, fallbackMonth, day, 0, 0, 0, 0, time.UTC)
}

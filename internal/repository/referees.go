package repository

import (
	"context"
	"fmt"

	"golfref/archival/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// RefereeRepository reads referee accounts. The users table also hosts
// non-referee account types; only referee rows are visible here.
type RefereeRepository struct {
	db *Database
}

// GetByID retrieves a referee by id
func (r *RefereeRepository) GetByID(ctx context.Context, id int64) (*models.Referee, error) {
	query := `
		SELECT id, name, email, level, created_at
		FROM users
		WHERE id = $1 AND role = 'referee'
	`

	var ref models.Referee
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&ref.ID, &ref.Name, &ref.Email, &ref.Level, &ref.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("referee not found: id=%d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get referee: %w", err)
	}

	return &ref, nil
}

// List retrieves all referees ordered by id
func (r *RefereeRepository) List(ctx context.Context) ([]models.Referee, error) {
	query := `
		SELECT id, name, email, level, created_at
		FROM users
		WHERE role = 'referee'
		ORDER BY id
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list referees: %w", err)
	}
	defer rows.Close()

	var referees []models.Referee
	for rows.Next() {
		var ref models.Referee
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.Email, &ref.Level, &ref.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan referee: %w", err)
		}
		referees = append(referees, ref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating referees: %w", err)
	}

	log.Debug().Int("count", len(referees)).Msg("Retrieved referees")
	return referees, nil
}

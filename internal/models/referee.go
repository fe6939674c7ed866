package models

import "time"

// Referee is the person whose history is consolidated. The account table is
// shared with non-referee users; only referee rows reach this subsystem.
type Referee struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Level     string    `db:"level"`
	CreatedAt time.Time `db:"created_at"`
}

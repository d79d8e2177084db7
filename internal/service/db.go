package service

import (
	"context"
	"database/sql"
)

// txBeginner is the slice of the database handle the transactional
// services need. Satisfied by *database.Postgres.
type txBeginner interface {
	BeginTx(ctx context.Context) (*sql.Tx, error)
}

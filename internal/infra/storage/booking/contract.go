package booking

import (
	"context"
	"database/sql"

	"github.com/autonexo/ANX-SchedulingService/pkg/dbmetrics"
)

// Reuse the dbmetrics interfaces so the repository accepts both *sql.DB and
// the metrics wrapper.
type DBExecutor = dbmetrics.DBExecutor
type TxExecutor = dbmetrics.TxExecutor

// TxBeginner opens transactions. Satisfied by *sql.DB and *dbmetrics.DB.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error)
}

package workshop

import "github.com/autonexo/ANX-SchedulingService/pkg/dbmetrics"

// Reuse the dbmetrics interfaces so the repository accepts both *sql.DB and
// the metrics wrapper.
type DBExecutor = dbmetrics.DBExecutor

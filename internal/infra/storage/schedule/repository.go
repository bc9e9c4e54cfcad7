package schedule

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/autonexo/ANX-SchedulingService/internal/domain"
	"github.com/autonexo/ANX-SchedulingService/pkg/dbmetrics"
	"github.com/autonexo/ANX-SchedulingService/pkg/psqlbuilder"
)

const (
	rulesTable   = "working_hours_rules"
	timeOffTable = "time_off"
)

// Repository stores working-hours rules and time off in PostgreSQL.
type Repository struct {
	db DBExecutor
}

// NewRepository creates the schedule repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListRules returns every recurring shift of one mechanic.
func (r *Repository) ListRules(ctx context.Context, mechanicID int64) ([]domain.WorkingHoursRule, error) {
	grouped, err := r.listRules(ctx, "ListRules", []int64{mechanicID})
	if err != nil {
		return nil, err
	}
	return grouped[mechanicID], nil
}

// ListRulesForMechanics returns the recurring shifts of several mechanics,
// grouped by mechanic id. Validity windows are applied per date when the
// calendar is built, not here.
func (r *Repository) ListRulesForMechanics(ctx context.Context, mechanicIDs []int64) (map[int64][]domain.WorkingHoursRule, error) {
	if len(mechanicIDs) == 0 {
		return map[int64][]domain.WorkingHoursRule{}, nil
	}
	return r.listRules(ctx, "ListRulesForMechanics", mechanicIDs)
}

func (r *Repository) listRules(ctx context.Context, method string, mechanicIDs []int64) (map[int64][]domain.WorkingHoursRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "mechanic_id", "weekday", "start_time", "end_time",
		"valid_from", "valid_to",
	).
		From(rulesTable).
		Where(squirrel.Expr("mechanic_id = ANY(?)", pq.Array(mechanicIDs))).
		OrderBy("mechanic_id ASC", "weekday ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, method, err)
	}
	defer rows.Close()

	rules := make(map[int64][]domain.WorkingHoursRule)
	for rows.Next() {
		var rule domain.WorkingHoursRule
		err := rows.Scan(
			&rule.ID, &rule.MechanicID, &rule.Weekday,
			&rule.StartTime, &rule.EndTime,
			&rule.ValidFrom, &rule.ValidTo,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, method, err)
		}
		rules[rule.MechanicID] = append(rules[rule.MechanicID], rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, method, err)
	}

	return rules, nil
}

// ListTimeOff returns absences of one mechanic overlapping the window.
func (r *Repository) ListTimeOff(ctx context.Context, mechanicID int64, window domain.TimeInterval) ([]domain.TimeOff, error) {
	grouped, err := r.listTimeOff(ctx, "ListTimeOff", []int64{mechanicID}, window)
	if err != nil {
		return nil, err
	}
	return grouped[mechanicID], nil
}

// ListTimeOffForMechanics returns absences of several mechanics overlapping
// the window, grouped by mechanic id.
func (r *Repository) ListTimeOffForMechanics(ctx context.Context, mechanicIDs []int64, window domain.TimeInterval) (map[int64][]domain.TimeOff, error) {
	if len(mechanicIDs) == 0 {
		return map[int64][]domain.TimeOff{}, nil
	}
	return r.listTimeOff(ctx, "ListTimeOffForMechanics", mechanicIDs, window)
}

func (r *Repository) listTimeOff(ctx context.Context, method string, mechanicIDs []int64, window domain.TimeInterval) (map[int64][]domain.TimeOff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "mechanic_id", "start_at", "end_at", "time_off_type", "reason",
	).
		From(timeOffTable).
		Where(squirrel.Expr("mechanic_id = ANY(?)", pq.Array(mechanicIDs))).
		Where(squirrel.Lt{"start_at": window.End}).
		Where(squirrel.Gt{"end_at": window.Start}).
		OrderBy("start_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, method, err)
	}
	defer rows.Close()

	timeOff := make(map[int64][]domain.TimeOff)
	for rows.Next() {
		var t domain.TimeOff
		err := rows.Scan(&t.ID, &t.MechanicID, &t.StartAt, &t.EndAt, &t.Type, &t.Reason)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, method, err)
		}
		timeOff[t.MechanicID] = append(timeOff[t.MechanicID], t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, method, err)
	}

	return timeOff, nil
}

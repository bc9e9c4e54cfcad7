package bay

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/autonexo/ANX-SchedulingService/internal/domain"
	"github.com/autonexo/ANX-SchedulingService/pkg/dbmetrics"
	"github.com/autonexo/ANX-SchedulingService/pkg/psqlbuilder"
)

const (
	baysTable     = "service_bays"
	closuresTable = "bay_closures"
)

var bayColumns = []string{
	"id", "workshop_id", "name", "bay_type",
	"max_length_mm", "max_width_mm", "max_height_mm", "max_weight_kg",
	"supported_vehicle_classes", "allow_overnight", "notes",
}

// Repository stores service bays and their closures in PostgreSQL.
type Repository struct {
	db DBExecutor
}

// NewRepository creates the bays repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID fetches one bay.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Bay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bayColumns...).
		From(baysTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBay(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBayNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan bay: %v", ErrScanRow, err)
	}

	return b, nil
}

// ListByWorkshop returns every bay of a workshop ordered by id. Planning
// iterates the result in id order for the contiguous search path.
func (r *Repository) ListByWorkshop(ctx context.Context, workshopID int64) ([]domain.Bay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bayColumns...).
		From(baysTable).
		Where(squirrel.Eq{"workshop_id": workshopID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByWorkshop - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByWorkshop - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bays := make([]domain.Bay, 0)
	for rows.Next() {
		b, err := scanBay(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByWorkshop - scan row: %v", ErrScanRow, err)
		}
		bays = append(bays, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByWorkshop - rows error: %v", ErrScanRow, err)
	}

	return bays, nil
}

// ListClosures returns closures of one bay overlapping the window.
func (r *Repository) ListClosures(ctx context.Context, bayID int64, window domain.TimeInterval) ([]domain.BayClosure, error) {
	closures, err := r.listClosures(ctx, "ListClosures", []int64{bayID}, window)
	if err != nil {
		return nil, err
	}
	return closures[bayID], nil
}

// ListClosuresForBays returns closures of several bays overlapping the
// window, grouped by bay id. One round trip serves a whole planning pass.
func (r *Repository) ListClosuresForBays(ctx context.Context, bayIDs []int64, window domain.TimeInterval) (map[int64][]domain.BayClosure, error) {
	if len(bayIDs) == 0 {
		return map[int64][]domain.BayClosure{}, nil
	}
	return r.listClosures(ctx, "ListClosuresForBays", bayIDs, window)
}

func (r *Repository) listClosures(ctx context.Context, method string, bayIDs []int64, window domain.TimeInterval) (map[int64][]domain.BayClosure, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "bay_id", "start_at", "end_at", "reason").
		From(closuresTable).
		Where(squirrel.Expr("bay_id = ANY(?)", pq.Array(bayIDs))).
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

	closures := make(map[int64][]domain.BayClosure)
	for rows.Next() {
		var c domain.BayClosure
		if err := rows.Scan(&c.ID, &c.BayID, &c.StartAt, &c.EndAt, &c.Reason); err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, method, err)
		}
		closures[c.BayID] = append(closures[c.BayID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, method, err)
	}

	return closures, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBay(row rowScanner) (*domain.Bay, error) {
	var b domain.Bay
	var classes pq.StringArray

	err := row.Scan(
		&b.ID, &b.WorkshopID, &b.Name, &b.BayType,
		&b.MaxLengthMM, &b.MaxWidthMM, &b.MaxHeightMM, &b.MaxWeightKG,
		&classes, &b.AllowOvernight, &b.Notes,
	)
	if err != nil {
		return nil, err
	}

	for _, c := range classes {
		b.SupportedVehicleClasses = append(b.SupportedVehicleClasses, domain.VehicleClass(c))
	}

	return &b, nil
}

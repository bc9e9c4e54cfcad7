package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/autonexo/ANX-SchedulingService/internal/domain"
	"github.com/autonexo/ANX-SchedulingService/pkg/dbmetrics"
	"github.com/autonexo/ANX-SchedulingService/pkg/psqlbuilder"
)

const bookingsTable = "bookings"

// bookingColumns is the column order every scan in this package relies on.
var bookingColumns = []string{
	"id", "workshop_id", "bay_id", "assigned_mechanic_id",
	"title", "description", "start_at", "end_at",
	"buffer_before_min", "buffer_after_min", "status", "chain_token",
	"service_item_id", "customer_id", "car_id",
	"price_net_ore", "price_gross_ore", "vat_percent", "price_note",
	"price_is_custom", "final_price_ore", "price_type",
	"actual_minutes_spent", "billed_from_time",
	"completed_at", "cancelled_at", "cancellation_reason",
	"created_at", "updated_at",
}

// Repository stores bookings in PostgreSQL. Overlap protection is backed by
// the exclusion constraints over (bay_id, tstzrange) and
// (assigned_mechanic_id, tstzrange).
type Repository struct {
	db DBExecutor
}

// NewRepository creates the bookings repository.
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create inserts a booking and returns the stored row. An overlap rejected
// by the database maps to ErrExclusionConflict.
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(bookingsTable).
		Columns(
			"workshop_id", "bay_id", "assigned_mechanic_id",
			"title", "description", "start_at", "end_at",
			"buffer_before_min", "buffer_after_min", "status", "chain_token",
			"service_item_id", "customer_id", "car_id",
			"price_net_ore", "price_gross_ore", "vat_percent", "price_note",
			"price_is_custom", "final_price_ore", "price_type",
			"billed_from_time",
		).
		Values(
			b.WorkshopID, b.BayID, b.AssignedMechanicID,
			b.Title, b.Description, b.StartAt, b.EndAt,
			b.BufferBeforeMin, b.BufferAfterMin, b.Status, b.ChainToken,
			b.ServiceItemID, b.CustomerID, b.CarID,
			b.PriceNetOre, b.PriceGrossOre, b.VatPercent, b.PriceNote,
			b.PriceIsCustom, b.FinalPriceOre, b.PriceType,
			b.BilledFromTime,
		).
		Suffix("RETURNING " + strings.Join(bookingColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	created, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if isOverlapViolation(err) {
			return nil, fmt.Errorf("%w: Create: %v", ErrExclusionConflict, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return created, nil
}

// GetByID fetches one booking.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return b, nil
}

// ListByBay returns bookings of one bay whose stored interval overlaps the
// window, ordered by start. Buffers stretch an interval beyond its stored
// bounds, so callers pad the window before asking.
func (r *Repository) ListByBay(ctx context.Context, bayID int64, window domain.TimeInterval, blocking []domain.BookingStatus) ([]domain.Booking, error) {
	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{"bay_id": bayID}).
		Where(squirrel.Lt{"start_at": window.End}).
		Where(squirrel.Gt{"end_at": window.Start}).
		OrderBy("start_at ASC")
	selectBuilder = withBlockingFilter(selectBuilder, blocking)

	return r.queryBookings(ctx, "ListByBay", selectBuilder)
}

// ListByMechanic mirrors ListByBay for a mechanic's assignments.
func (r *Repository) ListByMechanic(ctx context.Context, mechanicID int64, window domain.TimeInterval, blocking []domain.BookingStatus) ([]domain.Booking, error) {
	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{"assigned_mechanic_id": mechanicID}).
		Where(squirrel.Lt{"start_at": window.End}).
		Where(squirrel.Gt{"end_at": window.Start}).
		OrderBy("start_at ASC")
	selectBuilder = withBlockingFilter(selectBuilder, blocking)

	return r.queryBookings(ctx, "ListByMechanic", selectBuilder)
}

// ListWithFilter returns bookings of a workshop with flexible filtering:
// by bay, mechanic, period, status and chain token. Cancelled bookings are
// excluded unless requested explicitly.
func (r *Repository) ListWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]domain.Booking, error) {
	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{"workshop_id": filter.WorkshopID}).
		OrderBy("start_at DESC")

	if filter.BayID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"bay_id": *filter.BayID})
	}
	if filter.MechanicID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"assigned_mechanic_id": *filter.MechanicID})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"end_at": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_at": *filter.To})
	}
	if filter.ChainToken != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"chain_token": *filter.ChainToken})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.StatusCancelled})
	}

	return r.queryBookings(ctx, "ListWithFilter", selectBuilder)
}

// GetChainMaster returns the booking that anchors a chain token: the
// lowest-id non-cancelled booking carrying it.
func (r *Repository) GetChainMaster(ctx context.Context, token string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{"chain_token": token}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetChainMaster - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetChainMaster - scan booking: %v", ErrScanRow, err)
	}

	return b, nil
}

// UpdateStatus sets a new lifecycle status.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(bookingsTable).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Cancel moves an active booking to CANCELLED and records when and why.
// A booking already in a terminal state yields ErrCannotCancel.
func (r *Repository) Cancel(ctx context.Context, id int64, reason *string, cancelledAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(bookingsTable).
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", cancelledAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": []domain.BookingStatus{domain.StatusBooked, domain.StatusInProgress}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrCannotCancel
	}

	return nil
}

// Complete finalizes a booking with the settled price and the actual time
// spent.
func (r *Repository) Complete(ctx context.Context, id int64, finalPriceOre int64, actualMinutes int, billedFromTime bool, completedAt time.Time) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(bookingsTable).
		Set("status", domain.StatusCompleted).
		Set("final_price_ore", finalPriceOre).
		Set("actual_minutes_spent", actualMinutes).
		Set("billed_from_time", billedFromTime).
		Set("completed_at", completedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(bookingColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Complete - build update query: %v", ErrBuildQuery, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Complete - execute update: %v", ErrExecQuery, err)
	}

	return b, nil
}

func (r *Repository) queryBookings(ctx context.Context, method string, selectBuilder squirrel.SelectBuilder) ([]domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, method, err)
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, method, err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, method, err)
	}

	return bookings, nil
}

// withBlockingFilter narrows a query to the blocking statuses. An empty
// list means every status blocks, so no predicate is added.
func withBlockingFilter(selectBuilder squirrel.SelectBuilder, blocking []domain.BookingStatus) squirrel.SelectBuilder {
	if len(blocking) == 0 {
		return selectBuilder
	}
	return selectBuilder.Where(squirrel.Eq{"status": blocking})
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&b.ID, &b.WorkshopID, &b.BayID, &b.AssignedMechanicID,
		&b.Title, &b.Description, &b.StartAt, &b.EndAt,
		&b.BufferBeforeMin, &b.BufferAfterMin, &b.Status, &b.ChainToken,
		&b.ServiceItemID, &b.CustomerID, &b.CarID,
		&b.PriceNetOre, &b.PriceGrossOre, &b.VatPercent, &b.PriceNote,
		&b.PriceIsCustom, &b.FinalPriceOre, &b.PriceType,
		&b.ActualMinutesSpent, &b.BilledFromTime,
		&b.CompletedAt, &b.CancelledAt, &b.CancellationReason,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

// isOverlapViolation recognizes the exclusion constraint (23P01) and a
// unique violation (23505) as overlap conflicts.
func isOverlapViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "23P01" || pqErr.Code == "23505"
}

package workshop

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/patrickmn/go-cache"

	"github.com/autonexo/ANX-SchedulingService/internal/domain"
	"github.com/autonexo/ANX-SchedulingService/pkg/dbmetrics"
	"github.com/autonexo/ANX-SchedulingService/pkg/psqlbuilder"
)

const (
	workshopsTable    = "workshops"
	staffTable        = "workshop_staff"
	serviceItemsTable = "service_items"
	carsTable         = "cars"
	profilesTable     = "vehicle_profiles"
)

// Repository reads workshop master data from PostgreSQL. Workshop snapshots
// change rarely, so GetWorkshop keeps a short-lived in-process cache to
// spare the planner one query per search.
type Repository struct {
	db    DBExecutor
	cache *cache.Cache
}

// NewRepository creates the workshop repository. cacheTTL bounds how stale
// a cached workshop snapshot may be.
func NewRepository(db DBExecutor, cacheTTL time.Duration) *Repository {
	return &Repository{
		db:    db,
		cache: cache.New(cacheTTL, 2*cacheTTL),
	}
}

// GetWorkshop fetches one workshop, served from cache when fresh.
func (r *Repository) GetWorkshop(ctx context.Context, id int64) (*domain.Workshop, error) {
	cacheKey := fmt.Sprintf("workshop:%d", id)
	if cached, found := r.cache.Get(cacheKey); found {
		w := cached.(domain.Workshop)
		return &w, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "name", "city", "country", "timezone", "active",
	).
		From(workshopsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkshop - build select query: %v", ErrBuildQuery, err)
	}

	var w domain.Workshop
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&w.ID, &w.Name, &w.City, &w.Country, &w.Timezone, &w.Active,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWorkshopNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkshop - scan workshop: %v", ErrScanRow, err)
	}

	r.cache.Set(cacheKey, w, cache.DefaultExpiration)
	return &w, nil
}

// ListMechanics returns the schedule-eligible staff of a workshop ordered
// by id. Owners are excluded from assignment.
func (r *Repository) ListMechanics(ctx context.Context, workshopID int64) ([]domain.Mechanic, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "username", "email", "role").
		From(staffTable).
		Where(squirrel.Eq{"workshop_id": workshopID}).
		Where(squirrel.Eq{"role": []domain.MechanicRole{domain.RoleWorkshopUser, domain.RoleWorkshopEmployee}}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListMechanics - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListMechanics - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	mechanics := make([]domain.Mechanic, 0)
	for rows.Next() {
		var m domain.Mechanic
		if err := rows.Scan(&m.ID, &m.Username, &m.Email, &m.Role); err != nil {
			return nil, fmt.Errorf("%w: ListMechanics - scan row: %v", ErrScanRow, err)
		}
		mechanics = append(mechanics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListMechanics - rows error: %v", ErrScanRow, err)
	}

	return mechanics, nil
}

// GetMechanic fetches one staff member regardless of role. Role eligibility
// is the caller's decision.
func (r *Repository) GetMechanic(ctx context.Context, id int64) (*domain.Mechanic, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "username", "email", "role").
		From(staffTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetMechanic - build select query: %v", ErrBuildQuery, err)
	}

	var m domain.Mechanic
	err = executor.QueryRowContext(ctx, query, args...).Scan(&m.ID, &m.Username, &m.Email, &m.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMechanicNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetMechanic - scan mechanic: %v", ErrScanRow, err)
	}

	return &m, nil
}

// GetStaffRole returns the role userID holds in the workshop, or
// ErrStaffNotFound when the user is not on its staff.
func (r *Repository) GetStaffRole(ctx context.Context, workshopID, userID int64) (domain.MechanicRole, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("role").
		From(staffTable).
		Where(squirrel.Eq{"workshop_id": workshopID, "id": userID}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("%w: GetStaffRole - build select query: %v", ErrBuildQuery, err)
	}

	var role domain.MechanicRole
	err = executor.QueryRowContext(ctx, query, args...).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrStaffNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: GetStaffRole - scan role: %v", ErrScanRow, err)
	}

	return role, nil
}

// GetServiceItem fetches one service item.
func (r *Repository) GetServiceItem(ctx context.Context, id int64) (*domain.ServiceItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "workshop_id", "name", "vehicle_class", "price_type",
		"hourly_rate_ore", "fixed_price_ore", "vat_percent", "default_duration_min",
	).
		From(serviceItemsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceItem - build select query: %v", ErrBuildQuery, err)
	}

	var item domain.ServiceItem
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&item.ID, &item.WorkshopID, &item.Name, &item.VehicleClass, &item.PriceType,
		&item.HourlyRateOre, &item.FixedPriceOre, &item.VatPercent, &item.DefaultDurationMin,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceItem - scan service item: %v", ErrScanRow, err)
	}

	return &item, nil
}

// GetCar fetches one car.
func (r *Repository) GetCar(ctx context.Context, id int64) (*domain.Car, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "registration_number", "brand", "model").
		From(carsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetCar - build select query: %v", ErrBuildQuery, err)
	}

	var c domain.Car
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&c.ID, &c.RegistrationNumber, &c.Brand, &c.Model,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCarNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetCar - scan car: %v", ErrScanRow, err)
	}

	return &c, nil
}

// GetCarByRegistration fetches a car by its registration number. Lookups
// are case-insensitive on the stored upper-case plates.
func (r *Repository) GetCarByRegistration(ctx context.Context, registration string) (*domain.Car, error) {
	registration = strings.ToUpper(strings.TrimSpace(registration))
	if registration == "" {
		return nil, ErrCarNotFound
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "registration_number", "brand", "model").
		From(carsTable).
		Where(squirrel.Eq{"registration_number": registration}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetCarByRegistration - build select query: %v", ErrBuildQuery, err)
	}

	var c domain.Car
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&c.ID, &c.RegistrationNumber, &c.Brand, &c.Model,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCarNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetCarByRegistration - scan car: %v", ErrScanRow, err)
	}

	return &c, nil
}

// GetVehicleProfile fetches the dimensions profile of a car. A car without
// a profile yields ErrProfileNotFound; callers plan it as unconstrained.
func (r *Repository) GetVehicleProfile(ctx context.Context, carID int64) (*domain.VehicleProfile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"car_id", "vehicle_class",
		"length_mm", "width_mm", "height_mm", "weight_kg", "extra_notes",
	).
		From(profilesTable).
		Where(squirrel.Eq{"car_id": carID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetVehicleProfile - build select query: %v", ErrBuildQuery, err)
	}

	var p domain.VehicleProfile
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.CarID, &p.VehicleClass,
		&p.LengthMM, &p.WidthMM, &p.HeightMM, &p.WeightKG, &p.ExtraNotes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetVehicleProfile - scan profile: %v", ErrScanRow, err)
	}

	return &p, nil
}

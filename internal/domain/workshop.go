package domain

import "time"

// MechanicRole mirrors the staff roles of a workshop
type MechanicRole string

const (
	RoleOwner            MechanicRole = "owner"
	RoleWorkshopUser     MechanicRole = "workshop_user"
	RoleWorkshopEmployee MechanicRole = "workshop_employee"
)

// IsScheduleEligible reports whether staff with this role can be assigned
// to bookings.
func (r MechanicRole) IsScheduleEligible() bool {
	return r == RoleWorkshopUser || r == RoleWorkshopEmployee
}

// Mechanic is a staff member that can be assigned to a booking.
type Mechanic struct {
	ID       int64
	Username string
	Email    string
	Role     MechanicRole
}

// Workshop is the read-only snapshot the scheduling engine plans against.
type Workshop struct {
	ID       int64
	Name     string
	City     string
	Country  string
	Timezone string
	Active   bool
}

// Location resolves the workshop's IANA timezone. Callers must treat an
// error as a logged fallback to UTC, never a silent one.
func (w *Workshop) Location() (*time.Location, error) {
	if w.Timezone == "" {
		return time.LoadLocation(DefaultTimezone)
	}
	return time.LoadLocation(w.Timezone)
}

// Car identifies the vehicle a booking is for.
type Car struct {
	ID                 int64
	RegistrationNumber string
	Brand              *string
	Model              *string
}

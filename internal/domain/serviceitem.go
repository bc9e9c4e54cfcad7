package domain

// PriceType selects how a service item is priced
type PriceType string

const (
	PriceTypeHourly PriceType = "hourly"
	PriceTypeFixed  PriceType = "fixed"
)

// ServiceItem is a catalog entry a booking can reference. Exactly one of
// HourlyRateOre/FixedPriceOre is set, matching PriceType.
type ServiceItem struct {
	ID         int64
	WorkshopID int64
	Name       string

	// Optional restriction to one vehicle class
	VehicleClass *VehicleClass

	PriceType          PriceType
	HourlyRateOre      *int64
	FixedPriceOre      *int64
	VatPercent         *int
	DefaultDurationMin *int
}

// IsHourly reports whether the item bills by time. Time-based recompute on
// completion is only legal for hourly items.
func (s *ServiceItem) IsHourly() bool {
	return s.PriceType == PriceTypeHourly && s.HourlyRateOre != nil
}

package domain

import "time"

// BayType classifies the physical workstation
type BayType string

const (
	BayTypeTwoPostLift   BayType = "two_post_lift"
	BayTypeFourPostLift  BayType = "four_post_lift"
	BayTypeFloorSpace    BayType = "floor_space"
	BayTypeAlignmentRack BayType = "alignment_rack"
	BayTypeDiagnosis     BayType = "diagnosis"
	BayTypeMOTBay        BayType = "mot_bay"
)

// VehicleClass classifies a vehicle for bay compatibility
type VehicleClass string

const (
	VehicleClassMotorcycle VehicleClass = "motorcycle"
	VehicleClassSmallCar   VehicleClass = "small_car"
	VehicleClassSedan      VehicleClass = "sedan"
	VehicleClassSUV        VehicleClass = "suv"
	VehicleClassVan        VehicleClass = "van"
	VehicleClassPickup     VehicleClass = "pickup"
	VehicleClassLightTruck VehicleClass = "light_truck"
)

// Bay is a physical workstation inside a workshop. Snapshots are immutable
// for the duration of a planning or booking operation.
type Bay struct {
	ID         int64
	WorkshopID int64
	Name       string
	BayType    BayType

	// Physical limits, nil = unlimited
	MaxLengthMM *int
	MaxWidthMM  *int
	MaxHeightMM *int
	MaxWeightKG *int

	// Empty set means every vehicle class is supported
	SupportedVehicleClasses []VehicleClass

	AllowOvernight bool
	Notes          *string
}

// SupportsClass reports whether the bay accepts the given vehicle class.
func (b *Bay) SupportsClass(class VehicleClass) bool {
	if len(b.SupportedVehicleClasses) == 0 {
		return true
	}
	for _, c := range b.SupportedVehicleClasses {
		if c == class {
			return true
		}
	}
	return false
}

// FitsProfile reports whether a vehicle fits the bay's class set and
// physical limits. A nil profile is treated as unconstrained.
func (b *Bay) FitsProfile(p *VehicleProfile) bool {
	if p == nil {
		return true
	}
	if !b.SupportsClass(p.VehicleClass) {
		return false
	}
	if exceeds(b.MaxLengthMM, p.LengthMM) ||
		exceeds(b.MaxWidthMM, p.WidthMM) ||
		exceeds(b.MaxHeightMM, p.HeightMM) ||
		exceeds(b.MaxWeightKG, p.WeightKG) {
		return false
	}
	return true
}

func exceeds(limit, value *int) bool {
	return limit != nil && value != nil && *value > *limit
}

// BayClosure blocks a bay for maintenance or holidays. Closures block
// irrespective of buffers.
type BayClosure struct {
	ID      int64
	BayID   int64
	StartAt time.Time
	EndAt   time.Time
	Reason  *string
}

// Interval returns the closed window.
func (c *BayClosure) Interval() TimeInterval {
	return TimeInterval{Start: c.StartAt, End: c.EndAt}
}

// VehicleProfile carries the dimensions used for bay compatibility checks.
type VehicleProfile struct {
	CarID        int64
	VehicleClass VehicleClass

	LengthMM *int
	WidthMM  *int
	HeightMM *int
	WeightKG *int

	ExtraNotes *string
}

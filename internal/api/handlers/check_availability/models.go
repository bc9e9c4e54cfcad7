package check_availability

// CheckAvailabilityResponse is the interval verdict.
type CheckAvailabilityResponse struct {
	Available bool    `json:"available"`
	Reason    *string `json:"reason,omitempty"`
}

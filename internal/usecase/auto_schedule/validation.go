package auto_schedule

import (
	"fmt"
	"strings"

	"github.com/autonexo/ANX-SchedulingService/internal/domain"
)

func validateRequest(req *Request) error {
	if req.WorkshopID <= 0 {
		return fmt.Errorf("%w: workshop id must be positive", ErrInternal)
	}
	if req.BayID <= 0 {
		return ErrBayNotFound
	}

	title := strings.TrimSpace(req.Title)
	if title == "" || len(title) > domain.MaxTitleLength {
		return fmt.Errorf("%w: title is required, at most %d characters", ErrInvalidTitle, domain.MaxTitleLength)
	}

	if !req.EndAt.After(req.StartAt) {
		return ErrInvalidInterval
	}

	if req.BufferBeforeMin < 0 || req.BufferBeforeMin > domain.MaxBufferMinutes ||
		req.BufferAfterMin < 0 || req.BufferAfterMin > domain.MaxBufferMinutes {
		return fmt.Errorf("%w: buffers must be 0..%d minutes", ErrInvalidBuffer, domain.MaxBufferMinutes)
	}

	if req.VatPercent != nil && (*req.VatPercent < domain.MinVatPercent || *req.VatPercent > domain.MaxVatPercent) {
		return ErrInvalidVat
	}
	if req.PriceNetOre != nil && *req.PriceNetOre < 0 {
		return fmt.Errorf("%w: price_net_ore", ErrNegativePrice)
	}
	if req.PriceGrossOre != nil && *req.PriceGrossOre < 0 {
		return fmt.Errorf("%w: price_gross_ore", ErrNegativePrice)
	}

	return nil
}

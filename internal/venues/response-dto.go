package venues

import "time"

type VenueResponse struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	Address        string                 `json:"address"`
	City           string                 `json:"city"`
	State          string                 `json:"state"`
	Capacity       int                    `json:"capacity"`
	Description    string                 `json:"description"`
	IsActive       bool                   `json:"is_active"`
	SeatCategories []SeatCategoryResponse `json:"seat_categories,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

type SeatCategoryResponse struct {
	ID             string  `json:"id"`
	VenueID        string  `json:"venue_id"`
	Name           string  `json:"name"`
	Color          string  `json:"color"`
	BasePrice      float64 `json:"base_price"`
	ConvenienceFee float64 `json:"convenience_fee"`
	Capacity       int     `json:"capacity"`
}

type PaginatedVenues struct {
	Venues     []VenueResponse `json:"venues"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

func (v *Venue) ToResponse(includeCategories bool) VenueResponse {
	resp := VenueResponse{
		ID:          v.ID.String(),
		Name:        v.Name,
		Address:     v.Address,
		City:        v.City,
		State:       v.State,
		Capacity:    v.Capacity,
		Description: v.Description,
		IsActive:    v.IsActive,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}

	if includeCategories {
		for _, sc := range v.SeatCategories {
			resp.SeatCategories = append(resp.SeatCategories, sc.ToResponse())
		}
	}

	return resp
}

func (sc *SeatCategory) ToResponse() SeatCategoryResponse {
	return SeatCategoryResponse{
		ID:             sc.ID.String(),
		VenueID:        sc.VenueID.String(),
		Name:           sc.Name,
		Color:          sc.Color,
		BasePrice:      sc.BasePrice,
		ConvenienceFee: sc.ConvenienceFee,
		Capacity:       sc.Capacity,
	}
}

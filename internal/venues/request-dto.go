package venues

type CreateVenueRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=255"`
	Address     string `json:"address" binding:"max=500"`
	City        string `json:"city" binding:"required,min=2,max=100"`
	State       string `json:"state" binding:"max=100"`
	Capacity    int    `json:"capacity" binding:"omitempty,min=1"`
	Description string `json:"description" binding:"max=1000"`
}

type UpdateVenueRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=3,max=255"`
	Address     *string `json:"address" binding:"omitempty,max=500"`
	City        *string `json:"city" binding:"omitempty,min=2,max=100"`
	State       *string `json:"state" binding:"omitempty,max=100"`
	Capacity    *int    `json:"capacity" binding:"omitempty,min=1"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	IsActive    *bool   `json:"is_active"`
}

type CreateSeatCategoryRequest struct {
	Name           string  `json:"name" binding:"required,min=1,max=100"`
	Color          string  `json:"color" binding:"omitempty,max=20"`
	BasePrice      float64 `json:"base_price" binding:"required,min=0"`
	ConvenienceFee float64 `json:"convenience_fee" binding:"omitempty,min=0"`
	Capacity       int     `json:"capacity" binding:"omitempty,min=0"`
}

type UpdateSeatCategoryRequest struct {
	Name           *string  `json:"name" binding:"omitempty,min=1,max=100"`
	Color          *string  `json:"color" binding:"omitempty,max=20"`
	BasePrice      *float64 `json:"base_price" binding:"omitempty,min=0"`
	ConvenienceFee *float64 `json:"convenience_fee" binding:"omitempty,min=0"`
	Capacity       *int     `json:"capacity" binding:"omitempty,min=0"`
}

type VenueFilters struct {
	Search    string `form:"search"`
	City      string `form:"city"`
	IsActive  *bool  `form:"is_active"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
}

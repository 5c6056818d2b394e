package domain

import "time"

type Lot struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Address        string    `json:"address,omitempty"`
	TotalSpots     int       `json:"total_spots"`
	AvailableSpots int       `json:"available_spots"`
	OccupiedSpots  int       `json:"occupied_spots"`
	PricePerHour   float64   `json:"price_per_hour"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type LotDTO struct {
	Name         string  `json:"name" binding:"required"`
	Address      string  `json:"address"`
	TotalSpots   int     `json:"total_spots"`
	PricePerHour float64 `json:"price_per_hour"`
}

// LotDetail is the public projection of a lot together with its spots,
// ordered by ascending spot number.
type LotDetail struct {
	Lot
	Spots []Spot `json:"spots"`
}

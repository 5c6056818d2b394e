package domain

import (
	"time"

	"gopkg.in/guregu/null.v4"
)

type SpotState string

const (
	SpotAvailable SpotState = "available"
	SpotReserved  SpotState = "reserved"
	SpotOccupied  SpotState = "occupied"
)

// CanTransitionTo reports whether a spot may legally move from s to target.
// The cycle is available -> reserved -> occupied -> available, with an
// early release reserved -> available. Every state check in the system
// goes through this function.
func (s SpotState) CanTransitionTo(target SpotState) bool {
	switch target {
	case SpotReserved:
		return s == SpotAvailable
	case SpotOccupied:
		return s == SpotReserved
	case SpotAvailable:
		return s == SpotReserved || s == SpotOccupied
	}
	return false
}

func (s SpotState) Valid() bool {
	return s == SpotAvailable || s == SpotReserved || s == SpotOccupied
}

type Spot struct {
	ID            int         `json:"id"`
	LotID         int         `json:"lot_id"`
	Number        int         `json:"number"`
	State         SpotState   `json:"state"`
	AssignedPlate null.String `json:"assigned_plate"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

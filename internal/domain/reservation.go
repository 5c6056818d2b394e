package domain

import "time"

type ReservationDTO struct {
	LotID          int    `json:"lot_id" binding:"required"`
	SpotNumber     int    `json:"spot_number" binding:"required"`
	Plate          string `json:"plate" binding:"required"`
	DriverDocument string `json:"driver_document" binding:"required"`
	DriverName     string `json:"driver_name"`
	DriverPhone    string `json:"driver_phone"`
	DriverEmail    string `json:"driver_email"`
	VehicleMake    string `json:"vehicle_make"`
	VehicleModel   string `json:"vehicle_model"`
}

// SpotActionDTO identifies a spot for occupy/release requests.
type SpotActionDTO struct {
	LotID      int `json:"lot_id" binding:"required"`
	SpotNumber int `json:"spot_number" binding:"required"`
}

type ReservationRecord struct {
	Reference  string    `json:"reference"`
	LotID      int       `json:"lot_id"`
	SpotNumber int       `json:"spot_number"`
	Plate      string    `json:"plate"`
	State      SpotState `json:"state"`
	CreatedAt  time.Time `json:"created_at"`
}

// ActiveReservation is one row of the public plate lookup: a spot
// currently assigned to a plate, with its lot summary.
type ActiveReservation struct {
	LotID      int       `json:"lot_id"`
	LotName    string    `json:"lot_name"`
	LotAddress string    `json:"lot_address,omitempty"`
	SpotNumber int       `json:"spot_number"`
	State      SpotState `json:"state"`
	Plate      string    `json:"plate"`
}

// SpotStateNotification is broadcast to WebSocket clients whenever a
// spot changes state.
type SpotStateNotification struct {
	LotID      int       `json:"lot_id"`
	SpotNumber int       `json:"spot_number"`
	State      SpotState `json:"state"`
	Plate      string    `json:"plate,omitempty"`
}

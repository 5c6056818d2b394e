package domain

import (
	"strings"
	"time"

	"gopkg.in/guregu/null.v4"
)

// Vehicle is keyed by its normalized license plate. DriverDocument
// points at the current or last driver on file.
type Vehicle struct {
	Plate          string      `json:"plate"`
	Make           null.String `json:"make"`
	Model          null.String `json:"model"`
	DriverDocument string      `json:"driver_document"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// NormalizePlate uppercases and trims a license plate. All plate
// comparisons in the system use the normalized form.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

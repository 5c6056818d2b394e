package domain

import (
	"time"

	"gopkg.in/guregu/null.v4"
)

// Driver is keyed by its identity document. Reservations upsert the
// driver on file, so the profile always reflects the latest reservation.
type Driver struct {
	Document  string      `json:"document"`
	Name      string      `json:"name"`
	Phone     null.String `json:"phone"`
	Email     null.String `json:"email"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

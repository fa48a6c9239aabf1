package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trainer leads one or more sessions in the catalog.
type Trainer struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Role   string `json:"role,omitempty"`
}

// Event is a bookable group fitness session.
type Event struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Category       string          `json:"category,omitempty"`
	Time           time.Time       `json:"time"`
	Image          string          `json:"image,omitempty"`
	Price          decimal.Decimal `json:"price"`
	SpotsAvailable int             `json:"spotsAvailable"`
	Trainers       []Trainer       `json:"trainers,omitempty"`
}

// Booking is a reserved spot on an event. Bookings live in process memory
// only; they are not persisted across restarts.
type Booking struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

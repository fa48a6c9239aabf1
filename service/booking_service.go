package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sweatbook/sweatbook/core"
)

// BookingService keeps bookings in process memory for the lifetime of the
// server. Durable persistence is out of scope.
type BookingService struct {
	mu       sync.RWMutex
	bookings []core.Booking
}

// NewBookingService creates an empty booking service.
func NewBookingService() *BookingService {
	return &BookingService{}
}

// List returns a snapshot of all bookings in creation order.
func (s *BookingService) List(ctx context.Context) []core.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Booking, len(s.bookings))
	copy(out, s.bookings)
	return out
}

// Create records a booking for an event and returns it.
func (s *BookingService) Create(ctx context.Context, eventID, name, email string) *core.Booking {
	booking := core.Booking{
		ID:        uuid.New().String(),
		EventID:   eventID,
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.bookings = append(s.bookings, booking)
	s.mu.Unlock()

	return &booking
}

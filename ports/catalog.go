package ports

import (
	"context"

	"github.com/sweatbook/sweatbook/core"
)

// Catalog serves the bookable event listing.
type Catalog interface {
	Events(ctx context.Context) ([]core.Event, error)
}

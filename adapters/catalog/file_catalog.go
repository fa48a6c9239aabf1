package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sweatbook/sweatbook/core"
	"github.com/sweatbook/sweatbook/ports"
)

// FileCatalog serves the event listing from a JSON file on disk. The file is
// re-read on every call so the catalog can be swapped without a restart.
type FileCatalog struct {
	path string
}

// NewFileCatalog creates a catalog backed by the given JSON file.
func NewFileCatalog(path string) *FileCatalog {
	return &FileCatalog{path: path}
}

var _ ports.Catalog = (*FileCatalog)(nil)

// Events loads and decodes the catalog file.
func (c *FileCatalog) Events(ctx context.Context) ([]core.Event, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event catalog: %w", err)
	}

	var events []core.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("failed to decode event catalog: %w", err)
	}

	return events, nil
}

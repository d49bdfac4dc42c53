package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
	"github.com/zatekoja/aiclinimatch/internal/domain/repositories"
	apperrors "github.com/zatekoja/aiclinimatch/pkg/errors"
)

// JSONCatalog is an in-memory specialist catalog loaded once from a JSON array.
// It is read-only after construction and safe for concurrent use.
type JSONCatalog struct {
	specialists []*entities.Specialist
	byID        map[string]*entities.Specialist
}

// LoadJSONCatalog reads the catalog file at path.
func LoadJSONCatalog(path string) (*JSONCatalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open specialist catalog: %w", err)
	}
	defer f.Close()

	return NewJSONCatalog(f)
}

// NewJSONCatalog decodes a catalog from r. Records keep their file order.
func NewJSONCatalog(r io.Reader) (*JSONCatalog, error) {
	var specialists []*entities.Specialist
	if err := json.NewDecoder(r).Decode(&specialists); err != nil {
		return nil, fmt.Errorf("failed to decode specialist catalog: %w", err)
	}

	return NewCatalog(specialists)
}

// NewCatalog builds a catalog over specialists, rejecting missing or duplicate ids.
func NewCatalog(specialists []*entities.Specialist) (*JSONCatalog, error) {
	c := &JSONCatalog{
		specialists: make([]*entities.Specialist, 0, len(specialists)),
		byID:        make(map[string]*entities.Specialist, len(specialists)),
	}

	for i, s := range specialists {
		if s == nil {
			return nil, fmt.Errorf("specialist catalog entry %d is null", i)
		}
		id := strings.TrimSpace(s.ID)
		if id == "" {
			return nil, fmt.Errorf("specialist catalog entry %d has no id", i)
		}
		if _, dup := c.byID[id]; dup {
			return nil, fmt.Errorf("duplicate specialist id %q in catalog", id)
		}
		if s.Coordinate != nil && !s.Coordinate.IsFinite() {
			s.Coordinate = nil
		}
		c.byID[id] = s
		c.specialists = append(c.specialists, s)
	}

	return c, nil
}

var _ repositories.SpecialistRepository = (*JSONCatalog)(nil)

// All returns the catalog in load order. The slice is a copy; records are shared and must not be mutated.
func (c *JSONCatalog) All(_ context.Context) ([]*entities.Specialist, error) {
	out := make([]*entities.Specialist, len(c.specialists))
	copy(out, c.specialists)
	return out, nil
}

// GetByID returns one specialist by id.
func (c *JSONCatalog) GetByID(_ context.Context, id string) (*entities.Specialist, error) {
	s, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("specialist %s not found", id))
	}
	return s, nil
}

// Len returns the number of specialists in the catalog.
func (c *JSONCatalog) Len() int {
	return len(c.specialists)
}

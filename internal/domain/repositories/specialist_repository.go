package repositories

import (
	"context"

	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
)

// SpecialistRepository is the read-only candidate pool the matching engine runs over.
type SpecialistRepository interface {
	// All returns the full catalog in load order.
	All(ctx context.Context) ([]*entities.Specialist, error)

	// GetByID returns one specialist or a NOT_FOUND error.
	GetByID(ctx context.Context, id string) (*entities.Specialist, error)
}

// SpecialistIndexRepository pushes catalog records into an external search index.
type SpecialistIndexRepository interface {
	Index(ctx context.Context, specialist *entities.Specialist) error
	Delete(ctx context.Context, id string) error
}

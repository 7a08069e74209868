package interfaces

import (
	"context"
	"errors"

	"catering_admin/internal/domain/entities"
)

// ErrVersionConflict is returned by Save when the stored budget moved on
// since it was read. The caller reloads and replays its edit.
var ErrVersionConflict = errors.New("budget version conflict")

// ErrAlreadyExists is returned by Create when an item with the same id is
// already stored.
var ErrAlreadyExists = errors.New("item already exists")

// IBudgetRepository abstracts DynamoDB persistence for budget documents.
//
// The repository owns Budget.Version:
//   - Create stores version 1 and fails with ErrAlreadyExists on a taken id
//   - Save succeeds only if the stored version equals b.Version and stores b.Version+1
//
// Lookups return a zero Budget (empty ID) when nothing matches.
type IBudgetRepository interface {
	Create(ctx context.Context, b entities.Budget) (entities.Budget, error)
	GetByID(ctx context.Context, id string) (entities.Budget, error)
	List(ctx context.Context) ([]entities.Budget, error)
	Save(ctx context.Context, b entities.Budget) (entities.Budget, error)
}

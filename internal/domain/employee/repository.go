package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	// ListActive returns at most limit active employees ordered by hire date;
	// limit <= 0 returns all of them.
	ListActive(ctx context.Context, limit int) ([]Employee, error)
	ListByIDs(ctx context.Context, ids []string) ([]Employee, error)
}

package ports

import (
	"context"

	"dashpmo/internal/domain"
)

// ProjectRepository reads the active projects used to reconcile imports.
type ProjectRepository interface {
	ListActiveProjects(ctx context.Context) ([]domain.Project, error)
}

// ImportWriter persists an operator-confirmed batch in one transaction.
// Writing the same importID twice stores the batch once and returns the
// summary recorded the first time.
type ImportWriter interface {
	CommitImport(ctx context.Context, importID, fileName string, batch *domain.ImportResult) (domain.CommitSummary, error)
}

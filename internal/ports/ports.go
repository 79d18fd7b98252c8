package ports

import (
	"context"
	"io"
	"time"

	"dashpmo/internal/domain"
)

// Preview is a processed upload waiting for operator confirmation.
type Preview struct {
	ID        string               `json:"import_id"`
	FileName  string               `json:"arquivo"`
	CreatedAt time.Time            `json:"criado_em"`
	ExpiresAt time.Time            `json:"expira_em"`
	Result    *domain.ImportResult `json:"resultado"`
}

// ImportOptions carries per-upload switches.
type ImportOptions struct {
	Strict bool
}

// Confirmation lists, per project name, which diffed fields the operator
// accepted. Fields left out stay unconfirmed.
type Confirmation struct {
	UpdateFields map[string]map[string]bool `json:"update_fields"`
}

// Importer parses uploads into previews and commits confirmed ones.
type Importer interface {
	Preview(ctx context.Context, filename string, r io.Reader, opts ImportOptions) (*Preview, error)
	Get(ctx context.Context, id string) (*Preview, error)
	Commit(ctx context.Context, id string, c Confirmation) (domain.CommitSummary, error)
}

// ImportCommitted is published after a batch is written.
type ImportCommitted struct {
	ImportID    string               `json:"import_id"`
	FileName    string               `json:"arquivo"`
	CommittedAt time.Time            `json:"confirmado_em"`
	Summary     domain.CommitSummary `json:"resumo"`
}

// EventPublisher announces committed imports to other systems.
type EventPublisher interface {
	PublishImportCommitted(ctx context.Context, ev ImportCommitted) error
}

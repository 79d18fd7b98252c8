package imports

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"dashpmo/internal/domain"
	"dashpmo/internal/importer"
	"dashpmo/internal/logging"
	"dashpmo/internal/ports"
	"dashpmo/internal/workbook"
)

var ErrNotFound = errors.New("import preview not found or expired")

type Options struct {
	TTL          time.Duration
	StoreTimeout time.Duration
	RetryDelay   time.Duration
}

func (o Options) withDefaults() Options {
	if o.TTL <= 0 {
		o.TTL = 30 * time.Minute
	}
	if o.StoreTimeout <= 0 {
		o.StoreTimeout = 10 * time.Second
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = 200 * time.Millisecond
	}
	return o
}

type Service struct {
	projects  ports.ProjectRepository
	writer    ports.ImportWriter
	publisher ports.EventPublisher
	opts      Options
	now       func() time.Time

	mu       sync.Mutex
	previews map[string]*ports.Preview
}

// New wires the service. projects and writer may be nil for a detached run:
// reconciliation then sees no stored projects and Commit fails.
func New(projects ports.ProjectRepository, writer ports.ImportWriter, publisher ports.EventPublisher, opts Options) *Service {
	return &Service{
		projects:  projects,
		writer:    writer,
		publisher: publisher,
		opts:      opts.withDefaults(),
		now:       time.Now,
		previews:  make(map[string]*ports.Preview),
	}
}

var _ ports.Importer = (*Service)(nil)

func (s *Service) Preview(ctx context.Context, filename string, r io.Reader, opts ports.ImportOptions) (*ports.Preview, error) {
	grid, err := workbook.Read(filename, r)
	if err != nil {
		return nil, err
	}
	existing, err := s.loadProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	res, err := importer.Run(grid, importer.NewProjectIndex(existing), importer.Options{Strict: opts.Strict})
	if err != nil {
		return nil, err
	}

	now := s.now()
	p := &ports.Preview{
		ID:        uuid.NewString(),
		FileName:  filename,
		CreatedAt: now,
		ExpiresAt: now.Add(s.opts.TTL),
		Result:    res,
	}
	s.mu.Lock()
	s.previews[p.ID] = p
	s.mu.Unlock()
	logging.Infof("import %s: preview of %s stored (%d projects, %d warnings)", p.ID, filename, res.Summary.Projects, res.Summary.Warnings)
	return p, nil
}

// Get returns the stored preview. It is never modified after Preview, so
// callers may read it without holding the lock.
func (s *Service) Get(_ context.Context, id string) (*ports.Preview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.previews[id]
	if !ok || !s.now().Before(p.ExpiresAt) {
		return nil, ErrNotFound
	}
	return p, nil
}

// Commit applies the operator's confirmations and writes the batch. The
// preview is claimed up front so concurrent commits of the same id cannot
// both write; it is put back if the write fails.
func (s *Service) Commit(ctx context.Context, id string, c ports.Confirmation) (domain.CommitSummary, error) {
	if s.writer == nil {
		return domain.CommitSummary{}, errors.New("no import writer configured")
	}
	s.mu.Lock()
	p, ok := s.previews[id]
	if !ok || !s.now().Before(p.ExpiresAt) {
		s.mu.Unlock()
		return domain.CommitSummary{}, ErrNotFound
	}
	delete(s.previews, id)
	s.mu.Unlock()

	batch := confirmed(p.Result, c)

	// the writer records id, so a retry after a lost acknowledgement is a no-op
	var sum domain.CommitSummary
	err := s.withRetry(ctx, func(ctx context.Context) error {
		var err error
		sum, err = s.writer.CommitImport(ctx, id, p.FileName, batch)
		return err
	})
	if err != nil {
		s.mu.Lock()
		s.previews[id] = p
		s.mu.Unlock()
		return domain.CommitSummary{}, fmt.Errorf("commit import %s: %w", id, err)
	}
	logging.Infof("import %s committed: %d created, %d updated, %d statuses, %d deliveries",
		id, sum.ProjectsCreated, sum.ProjectsUpdated, sum.StatusesAdded, sum.DeliveriesAdded)

	if s.publisher != nil {
		ev := ports.ImportCommitted{ImportID: id, FileName: p.FileName, CommittedAt: s.now(), Summary: sum}
		if err := s.publisher.PublishImportCommitted(ctx, ev); err != nil {
			// the batch is already stored
			logging.Errorf("import %s: publish event: %v", id, err)
		}
	}
	return sum, nil
}

// Sweep drops previews that expired at or before now and returns how many.
func (s *Service) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, p := range s.previews {
		if !now.Before(p.ExpiresAt) {
			delete(s.previews, id)
			n++
		}
	}
	return n
}

func (s *Service) loadProjects(ctx context.Context) ([]domain.Project, error) {
	if s.projects == nil {
		return nil, nil
	}
	var out []domain.Project
	err := s.withRetry(ctx, func(ctx context.Context) error {
		var err error
		out, err = s.projects.ListActiveProjects(ctx)
		return err
	})
	return out, err
}

// withRetry runs fn under the store timeout, retrying once.
func (s *Service) withRetry(ctx context.Context, fn func(context.Context) error) error {
	b := retry.WithMaxRetries(1, retry.NewConstant(s.opts.RetryDelay))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		cctx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
		defer cancel()
		if err := fn(cctx); err != nil {
			logging.Debugf("store call failed: %v", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}

// confirmed returns a copy of res whose updates carry the operator's
// selection. Unknown fields and fields without a diff are ignored. res itself
// is left untouched; the stored preview is shared with readers.
func confirmed(res *domain.ImportResult, c ports.Confirmation) *domain.ImportResult {
	fieldsByKey := make(map[string]map[string]bool, len(c.UpdateFields))
	for name, fields := range c.UpdateFields {
		fieldsByKey[importer.NameKey(name)] = fields
	}
	out := *res
	out.Projects = make([]*domain.ProjectCandidate, len(res.Projects))
	for i, p := range res.Projects {
		cp := *p
		if cp.Reconciliation.Action == domain.ActionUpdate {
			fields := fieldsByKey[importer.NameKey(cp.Name)]
			selected := make(map[string]bool, len(cp.Reconciliation.Diffs))
			for _, d := range cp.Reconciliation.Diffs {
				selected[d.Field] = fields[d.Field]
			}
			cp.Reconciliation.UpdateFields = selected
		}
		out.Projects[i] = &cp
	}
	return &out
}

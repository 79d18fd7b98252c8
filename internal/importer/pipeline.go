package importer

import (
	"errors"
	"fmt"
	"strings"

	"dashpmo/internal/domain"
	"dashpmo/internal/logging"
)

// ErrTooFewRows aborts an import whose sheet has no data rows.
var ErrTooFewRows = errors.New("a planilha precisa de um cabeçalho e ao menos uma linha de dados")

// Run processes a parsed sheet: header check, row walk, in-batch dedup and
// reconciliation against ix (nil means no stored projects). Only a sheet
// without data rows is fatal; everything else lands in the result.
func Run(grid Grid, ix *ProjectIndex, opts Options) (*domain.ImportResult, error) {
	if len(grid) < 2 {
		return nil, fmt.Errorf("%w (linhas encontradas: %d)", ErrTooFewRows, len(grid))
	}
	if ix == nil {
		ix = NewProjectIndex(nil)
	}
	layout := NewColumnLayout()

	res := &domain.ImportResult{
		Projects:   []*domain.ProjectCandidate{},
		Statuses:   []*domain.StatusCandidate{},
		Deliveries: []*domain.DeliveryCandidate{},
		Warnings:   []domain.Warning{},
		Errors:     []domain.RowError{},
	}

	header := grid[0]
	logging.Debugf("import header (%d cols): %s", len(header), headerPreview(header))
	res.Warnings = append(res.Warnings, layout.ValidateHeader(header)...)
	for _, name := range ix.Duplicates() {
		res.Warnings = append(res.Warnings, domain.Warning{
			Message: fmt.Sprintf("projeto %q aparece mais de uma vez na base; usado o primeiro", name),
		})
	}

	firstRow := make(map[string]int)
	for i, row := range grid[1:] {
		num := i + 2
		out, err := processRowSafe(row, layout, num, opts)
		if err != nil {
			logging.Errorf("import row %d: %v", num, err)
			res.Errors = append(res.Errors, domain.RowError{Row: num, Reason: err.Error()})
			continue
		}
		res.Warnings = append(res.Warnings, out.Warnings...)
		if out.Project != nil {
			key := NameKey(out.Project.Name)
			if first, dup := firstRow[key]; dup {
				res.Warnings = append(res.Warnings, domain.Warning{
					Row:     num,
					Column:  ColumnName(ColNomeProjeto),
					Message: fmt.Sprintf("projeto %q repetido (primeira ocorrência na linha %d); dados do projeto desta linha ignorados", out.Project.Name, first),
				})
			} else {
				firstRow[key] = num
				res.Projects = append(res.Projects, out.Project)
			}
		}
		if out.Status != nil {
			res.Statuses = append(res.Statuses, out.Status)
		}
		res.Deliveries = append(res.Deliveries, out.Deliveries...)
	}

	Reconcile(res, ix)
	res.Summary = summarize(res, len(grid)-1)
	logging.Infof("import processed: %d rows, %d projects (%d new, %d updates), %d status, %d deliveries, %d warnings, %d errors",
		res.Summary.Rows, res.Summary.Projects, res.Summary.Creates, res.Summary.Updates,
		res.Summary.Statuses, res.Summary.Deliveries, res.Summary.Warnings, res.Summary.Errors)
	return res, nil
}

// processRowSafe keeps one bad row from aborting the batch.
func processRowSafe(row RawRow, layout *ColumnLayout, num int, opts Options) (out RowResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("falha ao processar linha: %v", r)
		}
	}()
	return ProcessRow(row, layout, num, opts), nil
}

func summarize(res *domain.ImportResult, rows int) domain.Summary {
	s := domain.Summary{
		Rows:       rows,
		Projects:   len(res.Projects),
		Statuses:   len(res.Statuses),
		Deliveries: len(res.Deliveries),
		Warnings:   len(res.Warnings),
		Errors:     len(res.Errors),
	}
	for _, p := range res.Projects {
		if p.Reconciliation.Action == domain.ActionUpdate {
			s.Updates++
		} else {
			s.Creates++
		}
	}
	return s
}

func headerPreview(header RawRow) string {
	parts := make([]string, 0, min(len(header), ColFirstDelivery))
	for i := 0; i < len(header) && i < ColFirstDelivery; i++ {
		parts = append(parts, Text(header[i]))
	}
	return strings.Join(parts, " | ")
}

package importer

import (
	"fmt"

	"dashpmo/internal/domain"
)

// RowResult is what one spreadsheet row contributes. Any member may be absent.
type RowResult struct {
	Project    *domain.ProjectCandidate
	Status     *domain.StatusCandidate
	Deliveries []*domain.DeliveryCandidate
	Warnings   []domain.Warning
}

// Options tune row processing.
type Options struct {
	// Strict turns best-guess labels into record errors instead of warnings.
	Strict bool
}

type rowReader struct {
	row      RawRow
	layout   *ColumnLayout
	num      int
	opts     Options
	warnings []domain.Warning
}

func (r *rowReader) cell(field string) any { return r.row.At(r.layout.Index(field)) }

func (r *rowReader) text(field string) string { return Text(r.cell(field)) }

func (r *rowReader) warn(col int, format string, args ...any) {
	r.warnings = append(r.warnings, domain.Warning{
		Row:     r.num,
		Column:  ColumnName(col),
		Message: fmt.Sprintf(format, args...),
	})
}

// label normalises a vocabulary cell. Best guesses are reported as a warning,
// or appended to errs in strict mode.
func (r *rowReader) label(col int, errs *[]string, valid ...string) string {
	n := Normalize(Text(r.row.At(col)), valid...)
	if n.Kind == KindBestGuess {
		msg := fmt.Sprintf("valor %q não reconhecido na coluna %s", n.Value, ColumnName(col))
		if r.opts.Strict {
			*errs = append(*errs, msg)
		} else {
			r.warn(col, "valor %q não reconhecido, usado como está", n.Value)
		}
	}
	return n.Value
}

// ProcessRow turns one data row into project, status and delivery candidates.
// rowNumber is the 1-based sheet row, used for diagnostics.
func ProcessRow(row RawRow, layout *ColumnLayout, rowNumber int, opts Options) RowResult {
	if row.Blank() {
		return RowResult{}
	}
	r := &rowReader{row: row, layout: layout, num: rowNumber, opts: opts}

	name := r.text("nomeProjeto")
	if name == "" {
		r.warn(ColNomeProjeto, "linha com dados mas sem nome de projeto; ignorada")
		return RowResult{Warnings: r.warnings}
	}

	out := RowResult{Project: r.project(name)}
	out.Status = r.status(name)
	out.Deliveries = r.deliveries(name)
	out.Warnings = r.warnings
	return out
}

func (r *rowReader) project(name string) *domain.ProjectCandidate {
	p := &domain.ProjectCandidate{
		Name:               name,
		Type:               r.text("tipoProjeto"),
		Description:        Multiline(r.cell("descricao")),
		TargetDate:         DatePtr(r.cell("finalizacaoPrevista")),
		Team:               r.text("equipe"),
		ASAOwner:           r.text("responsavelAsa"),
		ProjectLead:        r.text("gpResponsavel"),
		PrimaryPortfolio:   r.text("areaResponsavel"),
		SecondaryPortfolio: r.text("carteiraSecundaria"),
		TertiaryPortfolio:  r.text("carteiraTerciaria"),
		Row:                r.num,
		Errors:             []string{},
	}
	if p.TargetDate == nil && r.text("finalizacaoPrevista") != "" {
		r.warn(ColFinalizacaoPrevista, "finalização prevista %q não é uma data válida", r.text("finalizacaoPrevista"))
	}
	return p
}

func (r *rowReader) status(name string) *domain.StatusCandidate {
	date, ok := ParseDate(r.cell("dataStatus"))
	if !ok {
		if raw := r.text("dataStatus"); raw != "" {
			r.warn(ColDataStatus, "data do status %q inválida; status ignorado", raw)
		}
		return nil
	}
	s := &domain.StatusCandidate{
		ProjectName:    name,
		Date:           date,
		DoneThisWeek:   Multiline(r.cell("realizadoSemana")),
		Backlog:        Multiline(r.cell("backlog")),
		Blockers:       Multiline(r.cell("bloqueios")),
		AttentionNotes: Multiline(r.cell("observacoes")),
		Row:            r.num,
		Errors:         []string{},
		Action:         domain.ActionCreate,
	}
	s.OverallStatus = r.label(ColStatusGeral, &s.Errors)
	s.LeadView = r.label(ColStatusVisaoGp, &s.Errors)
	s.RiskProbability = r.label(ColProbabilidadeRiscos, &s.Errors)
	s.RiskImpact = r.label(ColImpactoRiscos, &s.Errors)

	if pct, ok := ParsePercent(r.cell("progressoEstimado")); ok {
		if pct < 0 || pct > 100 {
			r.warn(ColProgressoEstimado, "progresso %d%% fora do intervalo 0-100", pct)
		}
		s.Progress = &pct
	} else if raw := r.text("progressoEstimado"); raw != "" {
		r.warn(ColProgressoEstimado, "progresso %q não numérico", raw)
	}
	return s
}

func (r *rowReader) deliveries(name string) []*domain.DeliveryCandidate {
	var out []*domain.DeliveryCandidate
	for n := 1; n <= DeliverySlots; n++ {
		nameCol, dateCol, statusCol, scopeCol := r.layout.DeliveryColumns(n)
		title := Text(r.row.At(nameCol))
		if title == "" {
			continue
		}
		d := &domain.DeliveryCandidate{
			ProjectName: name,
			Title:       title,
			DueDate:     DatePtr(r.row.At(dateCol)),
			Scope:       Multiline(r.row.At(scopeCol)),
			Row:         r.num,
			Index:       n,
			Errors:      []string{},
		}
		if d.DueDate == nil {
			if raw := Text(r.row.At(dateCol)); raw != "" {
				r.warn(dateCol, "data da entrega %d %q inválida", n, raw)
			}
		}
		d.Status = r.label(statusCol, &d.Errors)
		out = append(out, d)
	}
	return out
}

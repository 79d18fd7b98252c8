package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	types "github.com/oapi-codegen/runtime/types"

	"dashpmo/internal/domain"
	"dashpmo/internal/importer"
)

var ErrUnknownProject = errString("status or delivery references a project outside the batch")

// CommitImport writes a confirmed batch atomically: new projects, confirmed
// field updates, status rows and deliveries. Deliveries are linked to the
// status row from the same spreadsheet row when there is one. The batch is
// recorded under importID; committing an id again returns the stored summary
// and writes nothing.
func (db *DB) CommitImport(ctx context.Context, importID, fileName string, batch *domain.ImportResult) (sum domain.CommitSummary, err error) {
	tx, err := db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return sum, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	// serialises concurrent commits of the same id
	if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, importID); err != nil {
		return sum, err
	}
	err = tx.QueryRow(ctx, `
		SELECT projetos_criados, projetos_alterados, status_inseridos, entregas_inseridas
		FROM importacoes WHERE id = $1
	`, importID).Scan(&sum.ProjectsCreated, &sum.ProjectsUpdated, &sum.StatusesAdded, &sum.DeliveriesAdded)
	switch {
	case err == nil:
		return sum, nil
	case !errors.Is(err, pgx.ErrNoRows):
		return sum, err
	}
	err = nil

	projectIDs := make(map[string]string, len(batch.Projects))
	for _, p := range batch.Projects {
		var id string
		switch p.Reconciliation.Action {
		case domain.ActionUpdate:
			id = p.Reconciliation.ExistingID
			updated, uerr := updateProject(ctx, tx, id, p)
			if uerr != nil {
				return sum, fmt.Errorf("update project %q (row %d): %w", p.Name, p.Row, uerr)
			}
			if updated {
				sum.ProjectsUpdated++
			}
		default:
			if err = tx.QueryRow(ctx, `
				INSERT INTO projetos (nome_projeto, tipo_projeto, descricao, finalizacao_prevista, equipe,
				                      responsavel_asa, gp_responsavel, area_responsavel,
				                      carteira_secundaria, carteira_terciaria)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
				RETURNING id::text
			`, p.Name, nullable(p.Type), nullable(p.Description), dateArg(p.TargetDate), nullable(p.Team),
				nullable(p.ASAOwner), nullable(p.ProjectLead), nullable(p.PrimaryPortfolio),
				nullable(p.SecondaryPortfolio), nullable(p.TertiaryPortfolio)).Scan(&id); err != nil {
				return sum, fmt.Errorf("insert project %q (row %d): %w", p.Name, p.Row, err)
			}
			sum.ProjectsCreated++
		}
		projectIDs[importer.NameKey(p.Name)] = id
	}

	statusIDs := make(map[int]string, len(batch.Statuses))
	for _, s := range batch.Statuses {
		projectID := s.ExistingProjectID
		if projectID == "" {
			projectID = projectIDs[importer.NameKey(s.ProjectName)]
		}
		if projectID == "" {
			err = fmt.Errorf("%w: %q (row %d)", ErrUnknownProject, s.ProjectName, s.Row)
			return sum, err
		}
		var id string
		if err = tx.QueryRow(ctx, `
			INSERT INTO status_projeto (projeto_id, data_atualizacao, status_geral, status_visao_gp,
			                            progresso_estimado, probabilidade_riscos, impacto_riscos,
			                            realizado_semana_atual, backlog, bloqueios_atuais,
			                            observacoes_pontos_atencao, aprovado)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING id::text
		`, projectID, s.Date.Time, nullable(s.OverallStatus), nullable(s.LeadView), s.Progress,
			nullable(s.RiskProbability), nullable(s.RiskImpact), nullable(s.DoneThisWeek),
			nullable(s.Backlog), nullable(s.Blockers), nullable(s.AttentionNotes), s.Approved).Scan(&id); err != nil {
			return sum, fmt.Errorf("insert status for %q (row %d): %w", s.ProjectName, s.Row, err)
		}
		statusIDs[s.Row] = id
		sum.StatusesAdded++
	}

	for _, d := range batch.Deliveries {
		projectID := projectIDs[importer.NameKey(d.ProjectName)]
		if projectID == "" {
			err = fmt.Errorf("%w: %q (row %d)", ErrUnknownProject, d.ProjectName, d.Row)
			return sum, err
		}
		var statusID any
		if id, ok := statusIDs[d.Row]; ok {
			statusID = id
		}
		if _, err = tx.Exec(ctx, `
			INSERT INTO entregas_status (projeto_id, status_id, nome_entrega, data_entrega,
			                             status_entrega, entregaveis, indice)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, projectID, statusID, d.Title, dateArg(d.DueDate), nullable(d.Status), nullable(d.Scope), d.Index); err != nil {
			return sum, fmt.Errorf("insert delivery %q (row %d): %w", d.Title, d.Row, err)
		}
		sum.DeliveriesAdded++
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO importacoes (id, arquivo, projetos_criados, projetos_alterados, status_inseridos, entregas_inseridas)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, importID, nullable(fileName), sum.ProjectsCreated, sum.ProjectsUpdated, sum.StatusesAdded, sum.DeliveriesAdded); err != nil {
		return sum, fmt.Errorf("record import %s: %w", importID, err)
	}
	return sum, nil
}

// updateProject sets only the operator-confirmed fields. Column names come
// from the importer whitelist, never from input.
func updateProject(ctx context.Context, tx pgx.Tx, id string, p *domain.ProjectCandidate) (bool, error) {
	var sets []string
	args := []any{id}
	for _, field := range importer.UpdatableFields() {
		if !p.Reconciliation.UpdateFields[field] {
			continue
		}
		args = append(args, updateValue(p, field))
		sets = append(sets, fmt.Sprintf("%s = $%d", field, len(args)))
	}
	if len(sets) == 0 {
		return false, nil
	}
	tag, err := tx.Exec(ctx,
		`UPDATE projetos SET `+strings.Join(sets, ", ")+`, updated_at = now() WHERE id = $1`, args...)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, fmt.Errorf("project %s no longer exists", id)
	}
	return true, nil
}

func updateValue(p *domain.ProjectCandidate, field string) any {
	switch field {
	case importer.FieldDescricao:
		return nullable(p.Description)
	case importer.FieldFinalizacaoPrevista:
		return dateArg(p.TargetDate)
	case importer.FieldEquipe:
		return nullable(p.Team)
	case importer.FieldResponsavelAsa:
		return nullable(p.ASAOwner)
	case importer.FieldGpResponsavel:
		return nullable(p.ProjectLead)
	case importer.FieldAreaResponsavel:
		return nullable(p.PrimaryPortfolio)
	}
	return nil
}

func nullable(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func dateArg(d *types.Date) any {
	if d == nil {
		return nil
	}
	return d.Time
}

type errString string

func (e errString) Error() string { return string(e) }

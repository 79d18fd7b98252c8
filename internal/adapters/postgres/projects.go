package postgres

import (
	"context"
	"time"

	types "github.com/oapi-codegen/runtime/types"

	"dashpmo/internal/domain"
)

// ListActiveProjects returns the reconciliation snapshot: active projects
// with the fields the import diff looks at.
func (db *DB) ListActiveProjects(ctx context.Context) ([]domain.Project, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id::text, nome_projeto, descricao, finalizacao_prevista, equipe,
		       responsavel_asa, gp_responsavel, area_responsavel
		FROM projetos
		WHERE ativo
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Project
	for rows.Next() {
		var p domain.Project
		var target *time.Time
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &target, &p.Team,
			&p.ASAOwner, &p.ProjectLead, &p.PrimaryPortfolio); err != nil {
			return nil, err
		}
		if target != nil {
			p.TargetDate = &types.Date{Time: *target}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

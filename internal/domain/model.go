package domain

import (
	types "github.com/oapi-codegen/runtime/types"
)

// Core domain models for the spreadsheet import. Candidates are transient and
// live for a single import run; Project mirrors the persisted subset needed to
// reconcile against.

// Action tells the write layer what to do with a candidate.
type Action string

const (
	ActionCreate    Action = "CRIAR"
	ActionUpdate    Action = "ATUALIZAR"
	ActionAddStatus Action = "ADICIONAR_STATUS"
)

// Project is an existing, active project as stored.
type Project struct {
	ID               string      `json:"id"`
	Name             string      `json:"nome_projeto"`
	Description      *string     `json:"descricao"`
	TargetDate       *types.Date `json:"finalizacao_prevista"`
	Team             *string     `json:"equipe"`
	ASAOwner         *string     `json:"responsavel_asa"`
	ProjectLead      *string     `json:"gp_responsavel"`
	PrimaryPortfolio *string     `json:"area_responsavel"`
}

type ProjectCandidate struct {
	Name               string             `json:"nome_projeto"`
	Type               string             `json:"tipo_projeto"`
	Description        string             `json:"descricao"`
	TargetDate         *types.Date        `json:"finalizacao_prevista"`
	Team               string             `json:"equipe"`
	ASAOwner           string             `json:"responsavel_asa"`
	ProjectLead        string             `json:"gp_responsavel"`
	PrimaryPortfolio   string             `json:"area_responsavel"`
	SecondaryPortfolio string             `json:"carteira_secundaria"`
	TertiaryPortfolio  string             `json:"carteira_terciaria"`
	Row                int                `json:"numero_linha"`
	Errors             []string           `json:"erros"`
	Reconciliation     ReconciliationMeta `json:"reconciliacao"`
}

// ReconciliationMeta is filled by the reconciliation pass. It is kept apart
// from the project fields so the candidate stays a plain domain record.
type ReconciliationMeta struct {
	Existed      bool            `json:"existe"`
	Action       Action          `json:"acao"`
	ExistingID   string          `json:"id_existente,omitempty"`
	ExistingName string          `json:"nome_existente,omitempty"`
	Diffs        []DiffEntry     `json:"diff"`
	UpdateFields map[string]bool `json:"update_fields"`
}

// DiffEntry describes one field that differs from the stored project.
type DiffEntry struct {
	Field string `json:"campo"`
	Label string `json:"rotulo"`
	Old   string `json:"anterior"`
	New   string `json:"novo"`
	Text  string `json:"texto"`
}

type StatusCandidate struct {
	ProjectName         string     `json:"projeto_nome"`
	Date                types.Date `json:"data_atualizacao"`
	OverallStatus       string     `json:"status_geral"`
	LeadView            string     `json:"status_visao_gp"`
	Progress            *int       `json:"progresso_estimado"`
	RiskProbability     string     `json:"probabilidade_riscos"`
	RiskImpact          string     `json:"impacto_riscos"`
	DoneThisWeek        string     `json:"realizado_semana_atual"`
	Backlog             string     `json:"backlog"`
	Blockers            string     `json:"bloqueios_atuais"`
	AttentionNotes      string     `json:"observacoes_pontos_atencao"`
	Approved            bool       `json:"aprovado"`
	Row                 int        `json:"numero_linha"`
	Errors              []string   `json:"erros"`
	Action              Action     `json:"acao"`
	ExistingProjectID   string     `json:"id_projeto_existente,omitempty"`
	ExistingProjectName string     `json:"nome_projeto_existente,omitempty"`
}

type DeliveryCandidate struct {
	ProjectName string      `json:"projeto_nome"`
	Title       string      `json:"titulo"`
	DueDate     *types.Date `json:"data_prevista"`
	Status      string      `json:"status_entrega"`
	Scope       string      `json:"escopo"`
	Row         int         `json:"numero_linha"`
	Index       int         `json:"indice_entrega"`
	Errors      []string    `json:"erros"`
}

// Warning is a non-fatal diagnostic. Row is zero for file-level warnings.
type Warning struct {
	Row     int    `json:"linha,omitempty"`
	Column  string `json:"coluna,omitempty"`
	Message string `json:"mensagem"`
}

// RowError reports a row that was dropped from the batch.
type RowError struct {
	Row    int    `json:"linha"`
	Reason string `json:"motivo"`
}

type Summary struct {
	Rows       int `json:"linhas"`
	Projects   int `json:"projetos"`
	Creates    int `json:"criar"`
	Updates    int `json:"atualizar"`
	Statuses   int `json:"status"`
	Deliveries int `json:"entregas"`
	Warnings   int `json:"avisos"`
	Errors     int `json:"erros"`
}

// ImportResult is what the pipeline hands to operator review.
type ImportResult struct {
	Projects   []*ProjectCandidate  `json:"projetos"`
	Statuses   []*StatusCandidate   `json:"status"`
	Deliveries []*DeliveryCandidate `json:"entregas"`
	Warnings   []Warning            `json:"avisos"`
	Errors     []RowError           `json:"erros"`
	Summary    Summary              `json:"resumo"`
}

// CommitSummary is returned by the write layer.
type CommitSummary struct {
	ProjectsCreated int `json:"projetos_criados"`
	ProjectsUpdated int `json:"projetos_atualizados"`
	StatusesAdded   int `json:"status_adicionados"`
	DeliveriesAdded int `json:"entregas_adicionadas"`
}

package importer

import (
	"testing"
	"time"

	types "github.com/oapi-codegen/runtime/types"

	"dashpmo/internal/domain"
)

func strp(s string) *string { return &s }

func datep(s string) *types.Date {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return &types.Date{Time: t}
}

func TestReconcileMatchesIgnoringCaseAndSpaces(t *testing.T) {
	ix := NewProjectIndex([]domain.Project{{ID: "p-1", Name: " Acme "}})
	res := &domain.ImportResult{
		Projects: []*domain.ProjectCandidate{{Name: "ACME", Row: 2}},
		Statuses: []*domain.StatusCandidate{{ProjectName: "ACME", Row: 2}},
	}
	Reconcile(res, ix)

	meta := res.Projects[0].Reconciliation
	if !meta.Existed || meta.Action != domain.ActionUpdate || meta.ExistingID != "p-1" || meta.ExistingName != " Acme " {
		t.Fatalf("meta = %+v", meta)
	}
	s := res.Statuses[0]
	if s.Action != domain.ActionAddStatus || s.ExistingProjectID != "p-1" || s.ExistingProjectName != " Acme " {
		t.Fatalf("status = %+v", s)
	}
}

func TestReconcileCreate(t *testing.T) {
	ix := NewProjectIndex([]domain.Project{{ID: "p-1", Name: "Outro"}})
	res := &domain.ImportResult{
		Projects: []*domain.ProjectCandidate{{Name: "Novo"}},
		Statuses: []*domain.StatusCandidate{{ProjectName: "Novo"}},
	}
	Reconcile(res, ix)
	meta := res.Projects[0].Reconciliation
	if meta.Existed || meta.Action != domain.ActionCreate || len(meta.Diffs) != 0 || len(meta.UpdateFields) != 0 {
		t.Fatalf("meta = %+v", meta)
	}
	if res.Statuses[0].Action != domain.ActionCreate || res.Statuses[0].ExistingProjectID != "" {
		t.Fatalf("status = %+v", res.Statuses[0])
	}
}

func TestDiffEntriesAndUpdateFields(t *testing.T) {
	existing := domain.Project{
		ID:               "p-1",
		Name:             "Portal",
		Description:      strp("antiga"),
		TargetDate:       datep("2024-06-30"),
		Team:             nil,
		ASAOwner:         strp("Maria"),
		ProjectLead:      strp("João"),
		PrimaryPortfolio: strp("Digital"),
	}
	cand := &domain.ProjectCandidate{
		Name:             "portal",
		Description:      "nova",
		TargetDate:       datep("2024-07-31"),
		Team:             "Squad A",
		ASAOwner:         " Maria ",
		ProjectLead:      "Pedro",
		PrimaryPortfolio: "",
	}
	res := &domain.ImportResult{Projects: []*domain.ProjectCandidate{cand}}
	Reconcile(res, NewProjectIndex([]domain.Project{existing}))

	want := map[string]string{
		FieldDescricao:           "Descrição: antiga → nova",
		FieldFinalizacaoPrevista: "Finalização Prevista: 2024-06-30 → 2024-07-31",
		FieldEquipe:              "Equipe: Vazio → Squad A",
		FieldGpResponsavel:       "Chefe: João → Pedro",
	}
	meta := cand.Reconciliation
	if len(meta.Diffs) != len(want) {
		t.Fatalf("diffs = %+v", meta.Diffs)
	}
	for _, d := range meta.Diffs {
		if want[d.Field] != d.Text {
			t.Errorf("diff %s text = %q, want %q", d.Field, d.Text, want[d.Field])
		}
		confirmed, ok := meta.UpdateFields[d.Field]
		if !ok || confirmed {
			t.Errorf("update field %s = %v/%v, want present and false", d.Field, confirmed, ok)
		}
	}
	if len(meta.UpdateFields) != len(want) {
		t.Fatalf("update fields = %v", meta.UpdateFields)
	}
}

func TestDiffSuppressedOnEmptyIncoming(t *testing.T) {
	existing := domain.Project{Name: "Portal", Description: strp("algo")}
	diffs := Diff(&domain.ProjectCandidate{Name: "Portal", Description: "   "}, existing)
	if len(diffs) != 0 {
		t.Fatalf("diffs = %+v", diffs)
	}
}

func TestDiffChefeAndCarteiraLabels(t *testing.T) {
	diffs := Diff(&domain.ProjectCandidate{ProjectLead: "Ana", PrimaryPortfolio: "Canais"}, domain.Project{})
	if len(diffs) != 2 {
		t.Fatalf("diffs = %+v", diffs)
	}
	if diffs[0].Label != "Chefe" || diffs[0].Field != FieldGpResponsavel {
		t.Fatalf("first = %+v", diffs[0])
	}
	if diffs[1].Label != "Carteira Primária" || diffs[1].Text != "Carteira Primária: Vazio → Canais" {
		t.Fatalf("second = %+v", diffs[1])
	}
}

func TestProjectIndexDuplicatesKeepFirst(t *testing.T) {
	ix := NewProjectIndex([]domain.Project{
		{ID: "a", Name: "Portal"},
		{ID: "b", Name: "PORTAL "},
		{ID: "c", Name: ""},
	})
	if ix.Len() != 1 {
		t.Fatalf("len = %d", ix.Len())
	}
	p, ok := ix.Lookup("portal")
	if !ok || p.ID != "a" {
		t.Fatalf("lookup = %+v %v", p, ok)
	}
	if len(ix.Duplicates()) != 1 || ix.Duplicates()[0] != "PORTAL " {
		t.Fatalf("duplicates = %v", ix.Duplicates())
	}
}

func TestProjectIndexSimilar(t *testing.T) {
	ix := NewProjectIndex([]domain.Project{
		{ID: "a", Name: "Migração Portal"},
		{ID: "b", Name: "Data Lake"},
	})
	p, ok := ix.Similar("Migracao-Portal")
	if !ok || p.ID != "a" {
		t.Fatalf("similar = %+v %v", p, ok)
	}
	if _, ok := ix.Similar("migração portal"); ok {
		t.Fatal("exact key match must not be reported as similar")
	}
	if _, ok := ix.Similar("Financeiro"); ok {
		t.Fatal("unrelated name reported as similar")
	}
}

func TestReconcileWarnsOnSimilarName(t *testing.T) {
	ix := NewProjectIndex([]domain.Project{{ID: "a", Name: "Data Lake"}})
	res := &domain.ImportResult{Projects: []*domain.ProjectCandidate{{Name: "DataLake", Row: 5}}}
	Reconcile(res, ix)
	if res.Projects[0].Reconciliation.Action != domain.ActionCreate {
		t.Fatal("similar name must still be a create")
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Row != 5 {
		t.Fatalf("warnings = %+v", res.Warnings)
	}
}

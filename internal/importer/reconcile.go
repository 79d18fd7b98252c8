package importer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/schollz/closestmatch"

	"dashpmo/internal/domain"
)

// Fields an operator may confirm on an update.
const (
	FieldDescricao           = "descricao"
	FieldFinalizacaoPrevista = "finalizacao_prevista"
	FieldEquipe              = "equipe"
	FieldResponsavelAsa      = "responsavel_asa"
	FieldGpResponsavel       = "gp_responsavel"
	FieldAreaResponsavel     = "area_responsavel"
)

// EmptyDisplay stands in for a missing stored value in diff text.
const EmptyDisplay = "Vazio"

type diffField struct {
	name     string
	label    string
	incoming func(*domain.ProjectCandidate) string
	existing func(domain.Project) string
}

var diffFields = []diffField{
	{FieldDescricao, "Descrição",
		func(p *domain.ProjectCandidate) string { return p.Description },
		func(e domain.Project) string { return deref(e.Description) }},
	{FieldFinalizacaoPrevista, "Finalização Prevista",
		func(p *domain.ProjectCandidate) string { return FormatDate(p.TargetDate) },
		func(e domain.Project) string { return FormatDate(e.TargetDate) }},
	{FieldEquipe, "Equipe",
		func(p *domain.ProjectCandidate) string { return p.Team },
		func(e domain.Project) string { return deref(e.Team) }},
	{FieldResponsavelAsa, "Responsável ASA",
		func(p *domain.ProjectCandidate) string { return p.ASAOwner },
		func(e domain.Project) string { return deref(e.ASAOwner) }},
	{FieldGpResponsavel, "Chefe",
		func(p *domain.ProjectCandidate) string { return p.ProjectLead },
		func(e domain.Project) string { return deref(e.ProjectLead) }},
	{FieldAreaResponsavel, "Carteira Primária",
		func(p *domain.ProjectCandidate) string { return p.PrimaryPortfolio },
		func(e domain.Project) string { return deref(e.PrimaryPortfolio) }},
}

// UpdatableFields lists the field names that can appear in UpdateFields.
func UpdatableFields() []string {
	out := make([]string, len(diffFields))
	for i, f := range diffFields {
		out[i] = f.name
	}
	return out
}

// NameKey is the reconciliation key: lower case and trimmed.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ProjectIndex is a read-only lookup of stored projects by NameKey.
type ProjectIndex struct {
	byKey      map[string]domain.Project
	byLoose    map[string]string
	matcher    *closestmatch.ClosestMatch
	duplicates []string
}

// NewProjectIndex builds the index. On duplicate keys the first project wins.
func NewProjectIndex(existing []domain.Project) *ProjectIndex {
	ix := &ProjectIndex{
		byKey:   make(map[string]domain.Project, len(existing)),
		byLoose: make(map[string]string, len(existing)),
	}
	var loose []string
	for _, p := range existing {
		key := NameKey(p.Name)
		if key == "" {
			continue
		}
		if _, dup := ix.byKey[key]; dup {
			ix.duplicates = append(ix.duplicates, p.Name)
			continue
		}
		ix.byKey[key] = p
		lk := looseKey(p.Name)
		if _, ok := ix.byLoose[lk]; !ok {
			ix.byLoose[lk] = key
			loose = append(loose, lk)
		}
	}
	if len(loose) > 0 {
		ix.matcher = closestmatch.New(loose, []int{2, 3})
	}
	return ix
}

func (ix *ProjectIndex) Len() int { return len(ix.byKey) }

// Duplicates lists stored names that collided with an earlier project.
func (ix *ProjectIndex) Duplicates() []string { return ix.duplicates }

func (ix *ProjectIndex) Lookup(name string) (domain.Project, bool) {
	p, ok := ix.byKey[NameKey(name)]
	return p, ok
}

// Similar returns a stored project whose name only differs from name by
// accents, punctuation or a containing prefix/suffix. Exact key matches are
// Lookup's job and are not reported here.
func (ix *ProjectIndex) Similar(name string) (domain.Project, bool) {
	if ix.matcher == nil {
		return domain.Project{}, false
	}
	lk := looseKey(name)
	if lk == "" {
		return domain.Project{}, false
	}
	guess := ix.matcher.Closest(lk)
	if guess == "" {
		return domain.Project{}, false
	}
	if guess != lk {
		short := min(len(guess), len(lk))
		if short < 4 || (!strings.Contains(guess, lk) && !strings.Contains(lk, guess)) {
			return domain.Project{}, false
		}
	}
	p := ix.byKey[ix.byLoose[guess]]
	if NameKey(p.Name) == NameKey(name) {
		return domain.Project{}, false
	}
	return p, true
}

// Reconcile annotates each project candidate with create/update metadata and
// a field diff, then tags status candidates of updated projects. It only
// touches the batch in memory.
func Reconcile(res *domain.ImportResult, ix *ProjectIndex) {
	actions := make(map[string]domain.ReconciliationMeta, len(res.Projects))
	for _, p := range res.Projects {
		meta := domain.ReconciliationMeta{
			Action:       domain.ActionCreate,
			Diffs:        []domain.DiffEntry{},
			UpdateFields: map[string]bool{},
		}
		if existing, ok := ix.Lookup(p.Name); ok {
			meta.Existed = true
			meta.Action = domain.ActionUpdate
			meta.ExistingID = existing.ID
			meta.ExistingName = existing.Name
			meta.Diffs = Diff(p, existing)
			for _, d := range meta.Diffs {
				meta.UpdateFields[d.Field] = false
			}
		} else if similar, ok := ix.Similar(p.Name); ok {
			res.Warnings = append(res.Warnings, domain.Warning{
				Row:     p.Row,
				Column:  ColumnName(ColNomeProjeto),
				Message: fmt.Sprintf("projeto %q será criado, mas já existe %q com nome parecido", p.Name, similar.Name),
			})
		}
		p.Reconciliation = meta
		if _, seen := actions[NameKey(p.Name)]; !seen {
			actions[NameKey(p.Name)] = meta
		}
	}

	for _, s := range res.Statuses {
		meta, ok := actions[NameKey(s.ProjectName)]
		if ok && meta.Action == domain.ActionUpdate {
			s.Action = domain.ActionAddStatus
			s.ExistingProjectID = meta.ExistingID
			s.ExistingProjectName = meta.ExistingName
			continue
		}
		s.Action = domain.ActionCreate
	}
}

// Diff compares the whitelisted fields. An entry is produced only when the
// incoming value is non-empty and differs from the stored one after trimming.
func Diff(p *domain.ProjectCandidate, existing domain.Project) []domain.DiffEntry {
	out := []domain.DiffEntry{}
	for _, f := range diffFields {
		in := strings.TrimSpace(f.incoming(p))
		if in == "" {
			continue
		}
		old := strings.TrimSpace(f.existing(existing))
		if in == old {
			continue
		}
		shown := old
		if shown == "" {
			shown = EmptyDisplay
		}
		out = append(out, domain.DiffEntry{
			Field: f.name,
			Label: f.label,
			Old:   old,
			New:   in,
			Text:  fmt.Sprintf("%s: %s → %s", f.label, shown, in),
		})
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// looseKey keeps letters and digits of the folded name.
func looseKey(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(foldAccents(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

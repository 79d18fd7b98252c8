package importer

import (
	"strings"
	"testing"
	"time"
)

func buildRow(cells map[int]any) RawRow {
	row := make(RawRow, ColFirstDelivery+DeliverySlots*DeliveryWidth)
	for i, v := range cells {
		row[i] = v
	}
	return row
}

func TestProcessRowBlank(t *testing.T) {
	layout := NewColumnLayout()
	for _, row := range []RawRow{nil, {}, buildRow(nil), {"", "  ", nil, 0.0}} {
		out := ProcessRow(row, layout, 2, Options{})
		if out.Project != nil || out.Status != nil || len(out.Deliveries) != 0 || len(out.Warnings) != 0 {
			t.Fatalf("blank row produced %+v", out)
		}
	}
}

func TestProcessRowWithoutProjectNameIsInert(t *testing.T) {
	row := buildRow(map[int]any{
		ColDescricao:     "algo",
		ColDataStatus:    "15/01/2024",
		ColFirstDelivery: "Entrega perdida",
	})
	out := ProcessRow(row, NewColumnLayout(), 7, Options{})
	if out.Project != nil || out.Status != nil || len(out.Deliveries) != 0 {
		t.Fatalf("expected no records, got %+v", out)
	}
	if len(out.Warnings) != 1 || out.Warnings[0].Row != 7 || out.Warnings[0].Column != "A" {
		t.Fatalf("expected one warning for row 7 column A, got %+v", out.Warnings)
	}
}

func TestProcessRowProjectFields(t *testing.T) {
	row := buildRow(map[int]any{
		ColNomeProjeto:         "  Portal  ",
		ColTipoProjeto:         "Evolutivo",
		ColDescricao:           "linha 1\r\nlinha 2",
		ColFinalizacaoPrevista: 45473.0,
		ColEquipe:              "Squad A",
		ColResponsavelAsa:      "Maria",
		ColGpResponsavel:       "João",
		ColAreaResponsavel:     "Digital",
		ColCarteiraSecundaria:  "Clientes",
		ColCarteiraTerciaria:   "Varejo",
	})
	out := ProcessRow(row, NewColumnLayout(), 3, Options{})
	p := out.Project
	if p == nil {
		t.Fatal("no project")
	}
	if p.Name != "Portal" || p.Type != "Evolutivo" || p.Team != "Squad A" || p.ASAOwner != "Maria" ||
		p.ProjectLead != "João" || p.PrimaryPortfolio != "Digital" || p.SecondaryPortfolio != "Clientes" ||
		p.TertiaryPortfolio != "Varejo" || p.Row != 3 {
		t.Fatalf("unexpected project %+v", p)
	}
	if p.Description != "linha 1\nlinha 2" {
		t.Fatalf("description = %q", p.Description)
	}
	if p.TargetDate == nil || p.TargetDate.Format(time.DateOnly) != "2024-06-30" {
		t.Fatalf("target date = %v", p.TargetDate)
	}
	if p.Errors == nil || len(p.Errors) != 0 {
		t.Fatalf("errors should start empty, got %v", p.Errors)
	}
	if out.Status != nil {
		t.Fatal("status without date must not be created")
	}
}

func TestProcessRowStatus(t *testing.T) {
	row := buildRow(map[int]any{
		ColNomeProjeto:         "Portal",
		ColDataStatus:          "15/01/2024",
		ColStatusGeral:         "verde",
		ColStatusVisaoGp:       "AMARELO",
		ColProgressoEstimado:   "45%",
		ColProbabilidadeRiscos: "alta",
		ColImpactoRiscos:       "media",
		ColRealizadoSemana:     "item 1\nitem 2\n",
		ColBacklog:             "b",
		ColBloqueios:           "nenhum",
		ColObservacoes:         "obs\r\nmais",
	})
	out := ProcessRow(row, NewColumnLayout(), 2, Options{})
	s := out.Status
	if s == nil {
		t.Fatal("no status")
	}
	if s.Date.Format(time.DateOnly) != "2024-01-15" || s.OverallStatus != "Verde" || s.LeadView != "Amarelo" {
		t.Fatalf("unexpected status %+v", s)
	}
	if s.Progress == nil || *s.Progress != 45 {
		t.Fatalf("progress = %v", s.Progress)
	}
	if s.RiskProbability != "Alta" || s.RiskImpact != "Média" {
		t.Fatalf("risks = %q/%q", s.RiskProbability, s.RiskImpact)
	}
	if s.DoneThisWeek != "item 1\nitem 2" || s.AttentionNotes != "obs\nmais" {
		t.Fatalf("multiline fields = %q / %q", s.DoneThisWeek, s.AttentionNotes)
	}
	if s.Approved {
		t.Fatal("imported status must start unapproved")
	}
	if len(out.Warnings) != 0 {
		t.Fatalf("unexpected warnings %+v", out.Warnings)
	}
}

func TestProcessRowInvalidStatusDateWarns(t *testing.T) {
	row := buildRow(map[int]any{ColNomeProjeto: "Portal", ColDataStatus: "semana 3"})
	out := ProcessRow(row, NewColumnLayout(), 4, Options{})
	if out.Status != nil {
		t.Fatal("status should be skipped")
	}
	if len(out.Warnings) != 1 || out.Warnings[0].Column != "L" {
		t.Fatalf("warnings = %+v", out.Warnings)
	}
}

func TestProcessRowSingleDelivery(t *testing.T) {
	row := buildRow(map[int]any{
		ColNomeProjeto:       "Portal",
		ColFirstDelivery:     "API",
		ColFirstDelivery + 3: "escopo\ncom linhas",
	})
	out := ProcessRow(row, NewColumnLayout(), 2, Options{})
	if len(out.Deliveries) != 1 {
		t.Fatalf("deliveries = %d", len(out.Deliveries))
	}
	d := out.Deliveries[0]
	if d.Index != 1 || d.Title != "API" || d.ProjectName != "Portal" || d.DueDate != nil || d.Status != "" {
		t.Fatalf("unexpected delivery %+v", d)
	}
	if d.Scope != "escopo\ncom linhas" {
		t.Fatalf("scope = %q", d.Scope)
	}
}

func TestProcessRowDeliverySlotsAreIndependent(t *testing.T) {
	cells := map[int]any{ColNomeProjeto: "Portal"}
	layout := NewColumnLayout()
	for _, n := range []int{2, 7, 15} {
		name, date, status, _ := layout.DeliveryColumns(n)
		cells[name] = "Entrega"
		cells[date] = "01/03/2024"
		cells[status] = "concluido"
	}
	// date set on an unnamed slot is ignored
	_, date3, _, _ := layout.DeliveryColumns(3)
	cells[date3] = "01/01/2024"

	out := ProcessRow(buildRow(cells), layout, 2, Options{})
	if len(out.Deliveries) != 3 {
		t.Fatalf("deliveries = %d", len(out.Deliveries))
	}
	for i, want := range []int{2, 7, 15} {
		d := out.Deliveries[i]
		if d.Index != want || d.Status != "Concluído" || FormatDate(d.DueDate) != "2024-03-01" {
			t.Fatalf("delivery %d = %+v", i, d)
		}
	}
}

func TestProcessRowShortRow(t *testing.T) {
	out := ProcessRow(RawRow{"Portal"}, NewColumnLayout(), 2, Options{})
	if out.Project == nil || out.Project.Name != "Portal" || out.Status != nil || len(out.Deliveries) != 0 {
		t.Fatalf("got %+v", out)
	}
}

func TestProcessRowBestGuessLabel(t *testing.T) {
	row := buildRow(map[int]any{
		ColNomeProjeto: "Portal",
		ColDataStatus:  "15/01/2024",
		ColStatusGeral: "laranja",
	})
	lenient := ProcessRow(row, NewColumnLayout(), 2, Options{})
	if lenient.Status.OverallStatus != "Laranja" || len(lenient.Status.Errors) != 0 {
		t.Fatalf("lenient status = %+v", lenient.Status)
	}
	if len(lenient.Warnings) != 1 || !strings.Contains(lenient.Warnings[0].Message, "Laranja") {
		t.Fatalf("lenient warnings = %+v", lenient.Warnings)
	}

	strict := ProcessRow(row, NewColumnLayout(), 2, Options{Strict: true})
	if len(strict.Status.Errors) != 1 || len(strict.Warnings) != 0 {
		t.Fatalf("strict errors = %v warnings = %v", strict.Status.Errors, strict.Warnings)
	}
}

func TestProcessRowProgressWarnings(t *testing.T) {
	row := buildRow(map[int]any{
		ColNomeProjeto:       "Portal",
		ColDataStatus:        45306.0,
		ColProgressoEstimado: "metade",
	})
	out := ProcessRow(row, NewColumnLayout(), 2, Options{})
	if out.Status.Progress != nil || len(out.Warnings) != 1 {
		t.Fatalf("progress = %v warnings = %+v", out.Status.Progress, out.Warnings)
	}

	row[ColProgressoEstimado] = Fraction(0.8)
	out = ProcessRow(row, NewColumnLayout(), 2, Options{})
	if out.Status.Progress == nil || *out.Status.Progress != 80 {
		t.Fatalf("percent-formatted progress = %v", out.Status.Progress)
	}
}

func TestProcessRowLowProgressIsNotScaled(t *testing.T) {
	for _, tc := range []struct {
		cell any
		want int
	}{
		{float64(1), 1},
		{float64(2), 2},
		{"1", 1},
		{Fraction(0.01), 1},
	} {
		row := buildRow(map[int]any{
			ColNomeProjeto:       "Portal",
			ColDataStatus:        45306.0,
			ColProgressoEstimado: tc.cell,
		})
		out := ProcessRow(row, NewColumnLayout(), 2, Options{})
		if out.Status.Progress == nil || *out.Status.Progress != tc.want {
			t.Errorf("progress(%#v) = %v, want %d", tc.cell, out.Status.Progress, tc.want)
		}
	}
}

package importer

import (
	"encoding/csv"
	"strings"
	"testing"
)

func TestColumnLayoutPositions(t *testing.T) {
	l := NewColumnLayout()
	if l.Len() != 22+DeliverySlots*DeliveryWidth {
		t.Fatalf("len = %d", l.Len())
	}
	checks := map[string]int{
		"nomeProjeto":       0,
		"carteiraTerciaria": 10,
		"dataStatus":        11,
		"observacoes":       21,
		"nomeEntrega1":      22,
		"entregaveis1":      25,
		"dataEntrega3":      31,
		"nomeEntrega15":     78,
		"entregaveis15":     81,
	}
	for field, want := range checks {
		if got := l.Index(field); got != want {
			t.Errorf("Index(%s) = %d, want %d", field, got, want)
		}
	}
	if l.Index("naoExiste") != -1 {
		t.Fatal("unknown field should be -1")
	}
}

func TestColumnName(t *testing.T) {
	cases := map[int]string{0: "A", 10: "K", 21: "V", 22: "W", 25: "Z", 26: "AA", 81: "CD"}
	for in, want := range cases {
		if got := ColumnName(in); got != want {
			t.Errorf("ColumnName(%d) = %s, want %s", in, got, want)
		}
	}
}

func TestValidateHeaderToleratesCaseAndAccents(t *testing.T) {
	header := headerRow()
	header[ColDescricao] = "  DESCRICAO "
	header[ColObservacoes] = "observacoes /  pontos de atencao"
	if w := NewColumnLayout().ValidateHeader(header); len(w) != 0 {
		t.Fatalf("warnings = %+v", w)
	}
}

func TestValidateHeaderShortDeliveryBlockIsFine(t *testing.T) {
	header := headerRow()[:ColFirstDelivery+DeliveryWidth]
	if w := NewColumnLayout().ValidateHeader(header); len(w) != 0 {
		t.Fatalf("warnings = %+v", w)
	}
}

func TestValidateHeaderMissingBaseColumns(t *testing.T) {
	header := headerRow()[:ColDataStatus]
	w := NewColumnLayout().ValidateHeader(header)
	if len(w) != ColFirstDelivery-ColDataStatus {
		t.Fatalf("expected one warning per missing status column, got %d: %+v", len(w), w)
	}
}

func TestWriteTemplate(t *testing.T) {
	var b strings.Builder
	if err := WriteTemplate(&b); err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(strings.NewReader(b.String())).ReadAll()
	if err != nil {
		t.Fatalf("template is not valid csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d", len(records))
	}
	if len(records[0]) != NewColumnLayout().Len() || len(records[1]) != len(records[0]) {
		t.Fatalf("widths = %d/%d", len(records[0]), len(records[1]))
	}

	// the example row must survive the pipeline on its own
	grid := Grid{}
	for _, rec := range records {
		row := make(RawRow, len(rec))
		for i, v := range rec {
			row[i] = v
		}
		grid = append(grid, row)
	}
	res, err := Run(grid, nil, Options{Strict: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Projects) != 1 || len(res.Statuses) != 1 || len(res.Deliveries) != 1 {
		t.Fatalf("summary = %+v", res.Summary)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("warnings = %+v", res.Warnings)
	}
	if got := res.Statuses[0].DoneThisWeek; got != "Deploy em homologação\nAjustes de layout" {
		t.Fatalf("multiline lost: %q", got)
	}
}

func TestLayoutMarkdownMentionsEveryColumn(t *testing.T) {
	md := LayoutMarkdown()
	for _, h := range NewColumnLayout().Headers()[:ColFirstDelivery] {
		if !strings.Contains(md, h) {
			t.Errorf("layout doc misses %q", h)
		}
	}
	if !strings.Contains(md, "| 15 | CA–CD |") {
		t.Error("layout doc misses the last delivery group")
	}
}

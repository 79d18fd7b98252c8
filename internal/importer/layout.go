package importer

import (
	"fmt"
	"strings"

	"github.com/schollz/closestmatch"

	"dashpmo/internal/domain"
)

// Fixed column positions (zero-based). Extraction always uses these; the
// header row is only checked against the expected labels.
const (
	ColNomeProjeto         = 0  // A
	ColTipoProjeto         = 1  // B
	ColDescricao           = 2  // C
	ColFinalizacaoPrevista = 3  // D
	ColEquipe              = 4  // E
	ColResponsavelAsa      = 5  // F
	ColGpResponsavel       = 6  // G
	ColResponsavel         = 7  // H
	ColAreaResponsavel     = 8  // I
	ColCarteiraSecundaria  = 9  // J
	ColCarteiraTerciaria   = 10 // K

	ColDataStatus          = 11 // L
	ColStatusGeral         = 12 // M
	ColStatusVisaoGp       = 13 // N
	ColProgressoEstimado   = 14 // O
	ColProbabilidadeRiscos = 15 // P
	ColImpactoRiscos       = 16 // Q
	ColProbXImpacto        = 17 // R
	ColRealizadoSemana     = 18 // S
	ColBacklog             = 19 // T
	ColBloqueios           = 20 // U
	ColObservacoes         = 21 // V

	ColFirstDelivery = 22 // W
	DeliverySlots    = 15
	DeliveryWidth    = 4
)

// Offsets inside one delivery group.
const (
	deliveryName = iota
	deliveryDate
	deliveryStatus
	deliveryScope
)

type column struct {
	Field string
	Label string
	Index int
}

// ColumnLayout maps logical field names to column positions. Built once per
// run by NewColumnLayout and read-only afterwards.
type ColumnLayout struct {
	columns []column
	byField map[string]int
}

var baseColumns = []column{
	{"nomeProjeto", "Nome do Projeto", ColNomeProjeto},
	{"tipoProjeto", "Tipo de Projeto", ColTipoProjeto},
	{"descricao", "Descrição", ColDescricao},
	{"finalizacaoPrevista", "Finalização Prevista", ColFinalizacaoPrevista},
	{"equipe", "Equipe", ColEquipe},
	{"responsavelAsa", "Responsável ASA", ColResponsavelAsa},
	{"gpResponsavel", "Chefe", ColGpResponsavel},
	{"responsavel", "Responsável", ColResponsavel},
	{"areaResponsavel", "Carteira Primária", ColAreaResponsavel},
	{"carteiraSecundaria", "Carteira Secundária", ColCarteiraSecundaria},
	{"carteiraTerciaria", "Carteira Terciária", ColCarteiraTerciaria},
	{"dataStatus", "Data do Status", ColDataStatus},
	{"statusGeral", "Status Geral", ColStatusGeral},
	{"statusVisaoGp", "Visão do GP", ColStatusVisaoGp},
	{"progressoEstimado", "Progresso Estimado", ColProgressoEstimado},
	{"probabilidadeRiscos", "Probabilidade de Riscos", ColProbabilidadeRiscos},
	{"impactoRiscos", "Impacto dos Riscos", ColImpactoRiscos},
	{"probXImpacto", "Probabilidade x Impacto", ColProbXImpacto},
	{"realizadoSemana", "Realizado na Semana", ColRealizadoSemana},
	{"backlog", "Backlog", ColBacklog},
	{"bloqueios", "Bloqueios Atuais", ColBloqueios},
	{"observacoes", "Observações / Pontos de Atenção", ColObservacoes},
}

func NewColumnLayout() *ColumnLayout {
	cols := make([]column, 0, len(baseColumns)+DeliverySlots*DeliveryWidth)
	cols = append(cols, baseColumns...)
	for n := 1; n <= DeliverySlots; n++ {
		base := ColFirstDelivery + (n-1)*DeliveryWidth
		cols = append(cols,
			column{fmt.Sprintf("nomeEntrega%d", n), fmt.Sprintf("Entrega %d", n), base + deliveryName},
			column{fmt.Sprintf("dataEntrega%d", n), fmt.Sprintf("Data Entrega %d", n), base + deliveryDate},
			column{fmt.Sprintf("statusEntrega%d", n), fmt.Sprintf("Status Entrega %d", n), base + deliveryStatus},
			column{fmt.Sprintf("entregaveis%d", n), fmt.Sprintf("Entregáveis %d", n), base + deliveryScope},
		)
	}
	byField := make(map[string]int, len(cols))
	for _, c := range cols {
		byField[c.Field] = c.Index
	}
	return &ColumnLayout{columns: cols, byField: byField}
}

// Index returns the column for a field, or -1 for unknown fields.
func (l *ColumnLayout) Index(field string) int {
	if i, ok := l.byField[field]; ok {
		return i
	}
	return -1
}

func (l *ColumnLayout) Len() int { return len(l.columns) }

// Headers returns the expected header labels in column order.
func (l *ColumnLayout) Headers() []string {
	out := make([]string, len(l.columns))
	for _, c := range l.columns {
		out[c.Index] = c.Label
	}
	return out
}

// DeliveryColumns returns the name/date/status/scope columns of slot n (1-based).
func (l *ColumnLayout) DeliveryColumns(n int) (name, date, status, scope int) {
	return l.Index(fmt.Sprintf("nomeEntrega%d", n)),
		l.Index(fmt.Sprintf("dataEntrega%d", n)),
		l.Index(fmt.Sprintf("statusEntrega%d", n)),
		l.Index(fmt.Sprintf("entregaveis%d", n))
}

// ValidateHeader compares header text with the expected labels. Matching is
// case and accent insensitive. A mismatch never stops the import; it only
// produces a warning, with the expected label the header most resembles when
// that points at a shifted column.
func (l *ColumnLayout) ValidateHeader(header RawRow) []domain.Warning {
	expected := l.Headers()
	keys := make([]string, len(expected))
	byKey := make(map[string]string, len(expected))
	for i, label := range expected {
		keys[i] = foldKey(label)
		byKey[keys[i]] = label
	}
	cm := closestmatch.New(keys, []int{2, 3})

	var warnings []domain.Warning
	for i, label := range expected {
		got := Text(header.At(i))
		if got == "" {
			if i < len(header) || i <= ColObservacoes {
				warnings = append(warnings, domain.Warning{
					Row:     1,
					Column:  ColumnName(i),
					Message: fmt.Sprintf("cabeçalho vazio, esperado %q", label),
				})
			}
			continue
		}
		if foldKey(got) == keys[i] {
			continue
		}
		msg := fmt.Sprintf("cabeçalho %q difere do esperado %q", got, label)
		if guess := cm.Closest(foldKey(got)); guess != "" && guess != keys[i] {
			msg += fmt.Sprintf(" (parece %q; verifique a ordem das colunas)", byKey[guess])
		}
		warnings = append(warnings, domain.Warning{Row: 1, Column: ColumnName(i), Message: msg})
	}
	return warnings
}

// ColumnName converts a zero-based index to spreadsheet letters (0 -> A, 26 -> AA).
func ColumnName(i int) string {
	if i < 0 {
		return ""
	}
	var b []byte
	for i >= 0 {
		b = append([]byte{byte('A' + i%26)}, b...)
		i = i/26 - 1
	}
	return string(b)
}

func foldKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(foldAccents(s))), " ")
}

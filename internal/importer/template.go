package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

var exampleRow = map[int]string{
	ColNomeProjeto:         "Projeto Exemplo",
	ColTipoProjeto:         "Sustentação",
	ColDescricao:           "Migração do portal de clientes",
	ColFinalizacaoPrevista: "30/06/2025",
	ColEquipe:              "Squad Portal",
	ColResponsavelAsa:      "Maria Souza",
	ColGpResponsavel:       "João Lima",
	ColResponsavel:         "Ana Costa",
	ColAreaResponsavel:     "Canais Digitais",
	ColCarteiraSecundaria:  "Clientes",
	ColCarteiraTerciaria:   "",
	ColDataStatus:          "15/01/2025",
	ColStatusGeral:         "Verde",
	ColStatusVisaoGp:       "Amarelo",
	ColProgressoEstimado:   "45%",
	ColProbabilidadeRiscos: "Média",
	ColImpactoRiscos:       "Alta",
	ColProbXImpacto:        "Média x Alta",
	ColRealizadoSemana:     "Deploy em homologação\nAjustes de layout",
	ColBacklog:             "Testes integrados",
	ColBloqueios:           "Aguardando acesso ao ambiente",
	ColObservacoes:         "Dependência do time de infraestrutura",
	ColFirstDelivery:       "API de cadastro",
	ColFirstDelivery + 1:   "01/02/2025",
	ColFirstDelivery + 2:   "Em Progresso",
	ColFirstDelivery + 3:   "Endpoints de leitura\nEndpoints de escrita",
}

// WriteTemplate writes the downloadable example: the header row and one
// filled row following the fixed layout. The pipeline never reads it back.
func WriteTemplate(w io.Writer) error {
	layout := NewColumnLayout()
	header := layout.Headers()
	example := make([]string, len(header))
	for col, v := range exampleRow {
		example[col] = v
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write template header: %w", err)
	}
	if err := cw.Write(example); err != nil {
		return fmt.Errorf("write template row: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// LayoutMarkdown documents the expected column order for operators.
func LayoutMarkdown() string {
	layout := NewColumnLayout()
	headers := layout.Headers()
	var b strings.Builder
	b.WriteString("# Layout da planilha de importação\n\n")
	b.WriteString("Use um arquivo `.xlsx` ou `.xls`. Apenas a primeira aba é lida, a linha 1 é o cabeçalho ")
	b.WriteString("e os dados começam na linha 2. As colunas são lidas pela posição, não pelo texto do cabeçalho: ")
	b.WriteString("mantenha a ordem abaixo.\n\n")
	b.WriteString("Datas aceitas: `dd/mm/aaaa`, `aaaa-mm-dd` ou células de data do Excel.\n\n")

	b.WriteString("## Projeto e status\n\n| Coluna | Campo |\n|---|---|\n")
	for i := 0; i < ColFirstDelivery; i++ {
		fmt.Fprintf(&b, "| %s | %s |\n", ColumnName(i), headers[i])
	}
	fmt.Fprintf(&b, "\n## Entregas\n\nA partir da coluna %s, %d grupos de %d colunas (nome, data, status, entregáveis). ",
		ColumnName(ColFirstDelivery), DeliverySlots, DeliveryWidth)
	b.WriteString("Entregas sem nome são ignoradas.\n\n| Entrega | Colunas |\n|---|---|\n")
	for n := 1; n <= DeliverySlots; n++ {
		name, _, _, scope := layout.DeliveryColumns(n)
		fmt.Fprintf(&b, "| %d | %s–%s |\n", n, ColumnName(name), ColumnName(scope))
	}

	b.WriteString("\n## Valores reconhecidos\n\n")
	fmt.Fprintf(&b, "- Saúde: %s\n", strings.Join(HealthColors, ", "))
	fmt.Fprintf(&b, "- Status: %s\n", strings.Join(ProgressStatuses, ", "))
	fmt.Fprintf(&b, "- Riscos: %s\n", strings.Join(RiskLevels, ", "))
	b.WriteString("\nValores fora dessas listas são aceitos com a primeira letra maiúscula e geram aviso.\n")
	return b.String()
}

package importer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind tells canonical labels apart from best-effort guesses.
type Kind int

const (
	KindEmpty Kind = iota
	KindCanonical
	KindBestGuess
)

func (k Kind) String() string {
	switch k {
	case KindCanonical:
		return "canonical"
	case KindBestGuess:
		return "best_guess"
	}
	return "empty"
}

// Normalized is the outcome of Normalize. Value is always usable; callers
// that want strict handling reject KindBestGuess.
type Normalized struct {
	Value string
	Kind  Kind
}

func (n Normalized) Canonical() bool { return n.Kind == KindCanonical }

var (
	HealthColors = []string{"Verde", "Amarelo", "Vermelho", "Azul", "Cinza"}

	ProgressStatuses = []string{
		"Não Iniciado", "Em Andamento", "Em Progresso", "Concluído",
		"Pausado", "Cancelado", "Atrasado", "Em Risco",
	}

	RiskLevels = []string{
		"Muito Baixa", "Baixa", "Média", "Alta", "Muito Alta",
		"Baixo", "Médio", "Alto",
	}
)

var canonical = func() map[string]struct{} {
	m := make(map[string]struct{})
	for _, set := range [][]string{HealthColors, ProgressStatuses, RiskLevels} {
		for _, v := range set {
			m[v] = struct{}{}
		}
	}
	return m
}()

// synonyms is keyed by the folded form (lower case, trimmed, no accents,
// single spaces). Every canonical label is reachable by its own folded key.
var synonyms = func() map[string]string {
	m := map[string]string{
		"nao iniciada": "Não Iniciado",
		"a iniciar":    "Não Iniciado",
		"andamento":    "Em Andamento",
		"em execucao":  "Em Andamento",
		"progresso":    "Em Progresso",
		"em curso":     "Em Progresso",
		"concluida":    "Concluído",
		"finalizado":   "Concluído",
		"finalizada":   "Concluído",
		"entregue":     "Concluído",
		"pausada":      "Pausado",
		"suspenso":     "Pausado",
		"cancelada":    "Cancelado",
		"atrasada":     "Atrasado",
		"green":        "Verde",
		"yellow":       "Amarelo",
		"red":          "Vermelho",
		"blue":         "Azul",
		"gray":         "Cinza",
		"grey":         "Cinza",
		"media":        "Média",
		"medio":        "Médio",
		"muito baixo":  "Muito Baixa",
		"muito alto":   "Muito Alta",
		"low":          "Baixa",
		"medium":       "Média",
		"high":         "Alta",
	}
	for v := range canonical {
		m[foldKey(v)] = v
	}
	return m
}()

// Normalize maps a free-text label onto the fixed vocabulary. Lookup order:
// exact canonical label, folded synonym table, the caller's valid values
// (folded comparison), and finally first-letter-upper capitalisation marked
// as a best guess.
func Normalize(value string, valid ...string) Normalized {
	v := strings.TrimSpace(value)
	if v == "" {
		return Normalized{Kind: KindEmpty}
	}
	if _, ok := canonical[v]; ok {
		return Normalized{Value: v, Kind: KindCanonical}
	}
	key := foldKey(v)
	if c, ok := synonyms[key]; ok {
		return Normalized{Value: c, Kind: KindCanonical}
	}
	for _, candidate := range valid {
		if foldKey(candidate) == key {
			return Normalized{Value: candidate, Kind: KindCanonical}
		}
	}
	return Normalized{Value: capitalize(v), Kind: KindBestGuess}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

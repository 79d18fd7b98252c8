package importer

import "testing"

func TestNormalizeCanonicalAreFixedPoints(t *testing.T) {
	for _, set := range [][]string{HealthColors, ProgressStatuses, RiskLevels} {
		for _, v := range set {
			n := Normalize(v)
			if n.Value != v || n.Kind != KindCanonical {
				t.Errorf("Normalize(%q) = %+v", v, n)
			}
		}
	}
}

func TestNormalizeSynonyms(t *testing.T) {
	cases := map[string]string{
		"verde":          "Verde",
		"VERDE":          "Verde",
		"  amarelo ":     "Amarelo",
		"em andamento":   "Em Andamento",
		"EM PROGRESSO":   "Em Progresso",
		"concluido":      "Concluído",
		"concluído":      "Concluído",
		"nao iniciado":   "Não Iniciado",
		"não   iniciado": "Não Iniciado",
		"alta":           "Alta",
		"media":          "Média",
		"médio":          "Médio",
		"finalizado":     "Concluído",
	}
	for in, want := range cases {
		n := Normalize(in)
		if n.Value != want || !n.Canonical() {
			t.Errorf("Normalize(%q) = %+v, want %q canonical", in, n, want)
		}
	}
}

func TestNormalizeValidList(t *testing.T) {
	n := Normalize("aguardando cliente", "Aguardando Cliente", "Em Homologação")
	if n.Value != "Aguardando Cliente" || n.Kind != KindCanonical {
		t.Fatalf("got %+v", n)
	}
	n = Normalize("em homologacao", "Aguardando Cliente", "Em Homologação")
	if n.Value != "Em Homologação" {
		t.Fatalf("accent-insensitive valid match failed: %+v", n)
	}
}

func TestNormalizeBestGuess(t *testing.T) {
	n := Normalize("aguardando APROVAÇÃO")
	if n.Kind != KindBestGuess {
		t.Fatalf("kind = %s", n.Kind)
	}
	if n.Value != "Aguardando aprovação" {
		t.Fatalf("value = %q", n.Value)
	}
}

func TestNormalizeEmpty(t *testing.T) {
	n := Normalize("   ")
	if n.Kind != KindEmpty || n.Value != "" {
		t.Fatalf("got %+v", n)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"verde", "Verde", "em progresso", "xyz", "ÉPICO em risco", "a", "",
		"concluido", "muito alto", "Pausada", "123", "ñandu", "em andamento ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once.Value)
		if once.Value != twice.Value {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once.Value, twice.Value)
		}
	}
}

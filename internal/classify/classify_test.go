package classify

import (
	"testing"

	"geoeconews/internal/domain"
)

func TestCategorizeEconomy(t *testing.T) {
	t.Parallel()

	cat := Categorize("Inflação acelera e pressiona o Banco Central", "A taxa selic deve subir no próximo trimestre")
	if cat != domain.CategoryEconomy {
		t.Fatalf("expected economy, got %s", cat)
	}
}

func TestCategorizeGeopolitics(t *testing.T) {
	t.Parallel()

	cat := Categorize("Guerra comercial entre China e Estados Unidos", "Novas sanções anunciadas após reunião da otan")
	if cat != domain.CategoryGeopolitics {
		t.Fatalf("expected geopolitics, got %s", cat)
	}
}

func TestCategorizeSingleMarketsKeyword(t *testing.T) {
	t.Parallel()

	// Exactly one markets keyword, none from the other vocabularies.
	cat := Categorize("Alta do bitcoin surpreende analistas", "")
	if cat != domain.CategoryMarkets {
		t.Fatalf("expected markets, got %s", cat)
	}
}

func TestCategorizeZeroMatchesFallsBackToEconomy(t *testing.T) {
	t.Parallel()

	cat := Categorize("Festival de inverno começa amanhã", "Programação inclui shows e feira gastronômica")
	if cat != domain.CategoryEconomy {
		t.Fatalf("expected economy fallback, got %s", cat)
	}
}

func TestCategorizeTieResolvesToFirstDeclared(t *testing.T) {
	t.Parallel()

	// One economy keyword and one markets keyword: economy is declared first.
	cat := Categorize("Bovespa reage ao preço do petróleo", "")
	if cat != domain.CategoryEconomy {
		t.Fatalf("expected economy on tie, got %s", cat)
	}
}

func TestCategorizeKeywordCountedOncePerText(t *testing.T) {
	t.Parallel()

	// "bitcoin" repeated three times is still a single markets match, so two
	// distinct geopolitics keywords must win.
	cat := Categorize("bitcoin bitcoin bitcoin", "guerra na rússia")
	if cat != domain.CategoryGeopolitics {
		t.Fatalf("expected geopolitics, got %s", cat)
	}
}

func TestImpactScoreBase(t *testing.T) {
	t.Parallel()

	if got := ImpactScore("Prefeitura inaugura nova ciclovia"); got != 1 {
		t.Fatalf("expected base score 1, got %d", got)
	}
}

func TestImpactScoreCountsDistinctTerms(t *testing.T) {
	t.Parallel()

	// "crise" and the históric- stem: 1 base + 2 matches.
	if got := ImpactScore("Mercado em crise histórica"); got != 3 {
		t.Fatalf("expected score 3, got %d", got)
	}
}

func TestImpactScoreClampsAtFive(t *testing.T) {
	t.Parallel()

	title := "urgente: crash e quebra em crise histórica, recorde de alerta na máxima"
	if got := ImpactScore(title); got != 5 {
		t.Fatalf("expected clamp at 5, got %d", got)
	}
}

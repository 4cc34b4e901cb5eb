package classify

import (
	"strings"

	"geoeconews/internal/domain"
)

// Vocabularies are matched as lowercase substrings. Each keyword counts at
// most once per text regardless of how often it repeats.
var economyKeywords = []string{
	"economia", "mercado", "inflação", "pib", "juros", "selic", "dólar", "real",
	"bolsa", "bovespa", "nasdaq", "investimento", "banco central", "fed",
	"recessão", "crescimento", "desemprego", "exportação", "importação",
}

var geopoliticsKeywords = []string{
	"geopolítica", "eleição", "guerra", "conflito", "diplomacia", "otan", "onu",
	"china", "estados unidos", "rússia", "política internacional", "sanções",
	"acordo", "tratado", "presidente", "governo", "parlamento", "congresso",
}

var marketsKeywords = []string{
	"ações", "commodities", "petróleo", "ouro", "crypto", "bitcoin", "ethereum",
	"forex", "câmbio", "trading", "hedge fund", "ipo", "fusão", "aquisição",
}

// vocabularies lists categories in declaration order; Categorize resolves
// ties to the earliest entry. Economy-first here is carried over from the
// upstream ranking and may be iteration-order accident rather than intent
// (see DESIGN.md), but it is load-bearing for the zero-score fallback.
var vocabularies = []struct {
	category domain.Category
	keywords []string
}{
	{domain.CategoryEconomy, economyKeywords},
	{domain.CategoryGeopolitics, geopoliticsKeywords},
	{domain.CategoryMarkets, marketsKeywords},
}

// High-impact title terms. "históric" is a stem so that both histórico and
// histórica match.
var highImpactTerms = []string{
	"quebra", "crash", "crise", "emergência", "urgente",
	"históric", "recorde", "máxima", "mínima", "alerta",
}

// Categorize assigns a single category from keyword overlap between the
// vocabularies and the lowercased title+content. It always returns a label:
// zero matches everywhere, or a tie at the top, resolve to economy.
func Categorize(title, content string) domain.Category {
	text := strings.ToLower(title + " " + content)

	best := vocabularies[0].category
	bestScore := 0
	for _, vocab := range vocabularies {
		score := 0
		for _, keyword := range vocab.keywords {
			if strings.Contains(text, keyword) {
				score++
			}
		}
		if score > bestScore {
			best = vocab.category
			bestScore = score
		}
	}

	return best
}

// ImpactScore rates title urgency on a 1..5 scale: base 1 plus one point per
// distinct high-impact term present, clamped at 5.
func ImpactScore(title string) int {
	lower := strings.ToLower(title)

	score := 1
	for _, term := range highImpactTerms {
		if strings.Contains(lower, term) {
			score++
		}
	}

	if score > 5 {
		return 5
	}
	return score
}

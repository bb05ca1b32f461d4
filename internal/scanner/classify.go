package scanner

import (
	"regexp"
	"strings"

	"github.com/alejandrodnm/edgescan/internal/domain"
)

// Many prediction markets are one-off events ("will X invade Y") with no
// reference class, so no base rate can be assigned to them. The classifier
// scores how amenable a market is to base-rate analysis so the research
// agent spends its budget on markets where history actually helps.

// AmenabilityClass buckets markets by how well a base rate can be estimated.
type AmenabilityClass string

const (
	ClassExcellent AmenabilityClass = "excellent" // clear historical base rate
	ClassGood      AmenabilityClass = "good"      // estimable from similar events
	ClassMarginal  AmenabilityClass = "marginal"  // rough estimate possible
	ClassPoor      AmenabilityClass = "poor"      // one-off or speculative
)

// Classification is the scored result for one market.
type Classification struct {
	Ticker            string
	Class             AmenabilityClass
	Score             float64 // 0-1, higher = more amenable
	Reasoning         string
	SuggestedStrategy string // "weather", "stock", "mention", "sports" or ""
	KeywordsMatched   []string
}

// Recurring events with clean historical frequencies.
var excellentKeywords = []string{
	"temperature", "rain", "snow", "precipitation", "weather", "degrees",
	"win", "score", "points", "championship", "playoff", "super bowl",
	"jobs report", "unemployment", "gdp", "inflation", "cpi",
	"fed rate", "interest rate", "fomc",
	"s&p 500", "dow", "nasdaq", "close above", "close below", "up or down",
	"state of the union", "press conference", "briefing", "mention",
}

var goodKeywords = []string{
	"election", "electoral", "popular vote", "primary", "nomination",
	"earnings", "revenue", "guidance", "layoffs",
	"oscar", "grammy", "emmy", "best picture",
	"ruling", "verdict", "approve", "reject", "conviction",
}

// Disqualifying: one-off geopolitics, contingent or vague markets, very
// long horizons without precedent.
var poorKeywords = []string{
	"invade", "war with", "nuclear",
	"conditional on", "if trump", "if biden",
	"by 2030", "by 2040", "by 2050", "ever",
	"significant", "major", "substantial",
}

var strategyPatterns = map[string][]*regexp.Regexp{
	"weather": {
		regexp.MustCompile(`temp.*\d+`),
		regexp.MustCompile(`(rain|snow)\s+in`),
		regexp.MustCompile(`precipitation`),
	},
	"stock": {
		regexp.MustCompile(`close\s+(above|below)`),
		regexp.MustCompile(`end\s+(higher|lower)`),
		regexp.MustCompile(`(nasdaq|dow|s&p).*close`),
	},
	"mention": {
		regexp.MustCompile(`say\s+(the\s+word|")`),
		regexp.MustCompile(`mention\s+"`),
	},
	"sports": {
		regexp.MustCompile(`(win|beat|defeat)\s`),
		regexp.MustCompile(`(score|points)\s+(over|under)`),
		regexp.MustCompile(`(championship|finals|super bowl)`),
	},
}

// ClassifyMarket scores one market's base-rate amenability from its title
// and category text.
func ClassifyMarket(m domain.Market) Classification {
	text := strings.ToLower(m.Title + " " + m.Category)

	if matched := matchKeywords(text, poorKeywords); len(matched) > 0 {
		return Classification{
			Ticker:          m.Ticker,
			Class:           ClassPoor,
			Score:           0.1,
			Reasoning:       "contains speculative/one-off indicators: " + strings.Join(matched, ", "),
			KeywordsMatched: matched,
		}
	}

	excellent := matchKeywords(text, excellentKeywords)
	good := matchKeywords(text, goodKeywords)

	strategy := ""
	for strat, patterns := range strategyPatterns {
		for _, p := range patterns {
			if p.MatchString(text) {
				strategy = strat
				break
			}
		}
		if strategy != "" {
			break
		}
	}

	score := 0.5
	score += float64(len(excellent)) * 0.15
	score += float64(len(good)) * 0.08
	if strategy != "" {
		score += 0.2
	}
	// Shorter horizons resolve faster and track the base rate better.
	switch {
	case strings.Contains(text, "today") || strings.Contains(text, "tomorrow"):
		score += 0.1
	case strings.Contains(text, "this week"):
		score += 0.05
	}
	score = max(0, min(1, score))

	var class AmenabilityClass
	switch {
	case score >= 0.7:
		class = ClassExcellent
	case score >= 0.5:
		class = ClassGood
	case score >= 0.3:
		class = ClassMarginal
	default:
		class = ClassPoor
	}

	matched := append(excellent, good...)
	reasoning := "no strong indicators of base-rate amenability"
	if len(matched) > 0 {
		reasoning = "matches base-rate keywords: " + strings.Join(matched, ", ")
	}
	if strategy != "" {
		reasoning += "; suggested strategy: " + strategy
	}

	return Classification{
		Ticker:            m.Ticker,
		Class:             class,
		Score:             score,
		Reasoning:         reasoning,
		SuggestedStrategy: strategy,
		KeywordsMatched:   matched,
	}
}

// FilterClassified keeps markets whose classification score reaches
// minScore, sorted as given (stable).
func FilterClassified(markets []domain.Market, minScore float64) []domain.Market {
	var out []domain.Market
	for _, m := range markets {
		if ClassifyMarket(m).Score >= minScore {
			out = append(out, m)
		}
	}
	return out
}

func matchKeywords(text string, keywords []string) []string {
	var matched []string
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

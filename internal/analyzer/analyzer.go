package analyzer

import (
	"strings"

	"github.com/staywise/helpdesk/internal/models"
)

const (
	weightStrong = 0.3
	weightMedium = 0.2
	weightWeak   = 0.1

	sentimentStep   = 0.2
	urgencyPenalty  = 0.3
	maxGenericWords = 5
)

// Entities groups the named entities found in ticket text.
type Entities struct {
	Systems  []string `json:"systems"`
	Dates    []string `json:"dates"`
	Issues   []string `json:"issues"`
	Features []string `json:"features"`
}

// Classification is the structured result of analyzing ticket text.
// It is a pure function of the input: identical text always produces an
// identical result, with no clock or randomness involved.
type Classification struct {
	Keywords          []string                    `json:"keywords"`
	Entities          Entities                    `json:"entities"`
	Sentiment         float64                     `json:"sentiment"`
	Category          models.Category             `json:"category"`
	CategoryScores    map[models.Category]float64 `json:"category_scores"`
	Confidence        float64                     `json:"confidence"`
	UrgencyIndicators []string                    `json:"urgency_indicators"`
}

// Analyze classifies raw ticket text. It is total: any input, including
// empty strings, yields a valid result (falling back to GENERAL).
func Analyze(title, description string) *Classification {
	text := strings.ToLower(title + " " + description)

	keywords, keywordSet := extractKeywords(text)
	scores, rawMax := scoreCategories(text, keywordSet)

	return &Classification{
		Keywords:          keywords,
		Entities:          extractEntities(text),
		Sentiment:         scoreSentiment(text),
		Category:          pickCategory(scores),
		CategoryScores:    scores,
		Confidence:        clamp(rawMax, 0, 1),
		UrgencyIndicators: findUrgencyIndicators(text),
	}
}

// extractKeywords collects phrase hits, then single-term domain hits, then
// up to five generic long words not already seen. Only uniqueness matters;
// the set is built in scan order so the output stays deterministic.
func extractKeywords(text string) ([]string, map[string]struct{}) {
	seen := make(map[string]struct{})
	keywords := []string{}

	add := func(w string) {
		if _, ok := seen[w]; !ok {
			seen[w] = struct{}{}
			keywords = append(keywords, w)
		}
	}

	for _, phrase := range phraseKeywords {
		if strings.Contains(text, phrase) {
			add(phrase)
		}
	}

	for _, group := range [][]string{technicalTerms, billingTerms, productTerms, issueTerms} {
		for _, term := range group {
			if strings.Contains(text, term) {
				add(term)
			}
		}
	}

	generic := 0
	for _, token := range strings.Fields(text) {
		token = strings.Trim(token, ".,!?;:'\"()[]")
		if len(token) <= 3 {
			continue
		}
		if _, stop := stopwords[token]; stop {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		add(token)
		generic++
		if generic == maxGenericWords {
			break
		}
	}

	return keywords, seen
}

func extractEntities(text string) Entities {
	e := Entities{
		Systems:  []string{},
		Dates:    []string{},
		Issues:   []string{},
		Features: []string{},
	}
	for _, sys := range systemVocab {
		if strings.Contains(text, sys) {
			e.Systems = append(e.Systems, sys)
		}
	}
	for _, re := range dateRegexes {
		e.Dates = append(e.Dates, re.FindAllString(text, -1)...)
	}
	for _, issue := range issueVocab {
		if strings.Contains(text, issue) {
			e.Issues = append(e.Issues, issue)
		}
	}
	for _, feature := range featureVocab {
		if strings.Contains(text, feature) {
			e.Features = append(e.Features, feature)
		}
	}
	return e
}

// scoreSentiment accumulates fixed-step word hits plus a one-time urgency
// penalty, clamped to [-1, 1].
func scoreSentiment(text string) float64 {
	score := 0.0
	for _, w := range negativeWords {
		if strings.Contains(text, w) {
			score -= sentimentStep
		}
	}
	for _, w := range positiveWords {
		if strings.Contains(text, w) {
			score += sentimentStep
		}
	}
	for _, w := range urgencyTerms {
		if strings.Contains(text, w) {
			score -= urgencyPenalty
			break
		}
	}
	return clamp(score, -1, 1)
}

// scoreCategories sums tiered keyword hits per category, then normalizes by
// the maximum score so the winner lands at exactly 1.0. When nothing scores,
// GENERAL is forced to 1.0. A hit counts if the term appears in the text or
// in the already-extracted keyword set; each tier entry counts once.
// The returned rawMax is the pre-normalization maximum.
func scoreCategories(text string, keywordSet map[string]struct{}) (map[models.Category]float64, float64) {
	scores := make(map[models.Category]float64, len(models.Categories))
	for _, c := range models.Categories {
		scores[c] = 0
	}

	hit := func(term string) bool {
		if strings.Contains(text, term) {
			return true
		}
		_, ok := keywordSet[term]
		return ok
	}

	for _, tier := range categoryTiers {
		cat := models.Category(tier.category)
		for _, term := range tier.strong {
			if hit(term) {
				scores[cat] += weightStrong
			}
		}
		for _, term := range tier.medium {
			if hit(term) {
				scores[cat] += weightMedium
			}
		}
		for _, term := range tier.weak {
			if hit(term) {
				scores[cat] += weightWeak
			}
		}
	}

	rawMax := 0.0
	for _, c := range models.Categories {
		if scores[c] > rawMax {
			rawMax = scores[c]
		}
	}

	if rawMax == 0 {
		scores[models.CategoryGeneral] = 1.0
		return scores, 0
	}
	for c := range scores {
		scores[c] = scores[c] / rawMax
	}
	return scores, rawMax
}

// pickCategory returns the arg-max over the score map, with ties broken by
// category declaration order.
func pickCategory(scores map[models.Category]float64) models.Category {
	best := models.Categories[0]
	for _, c := range models.Categories[1:] {
		if scores[c] > scores[best] {
			best = c
		}
	}
	return best
}

func findUrgencyIndicators(text string) []string {
	indicators := []string{}
	for _, p := range urgencyPatterns {
		if p.re.MatchString(text) {
			indicators = append(indicators, p.label)
		}
	}
	return indicators
}

// Priority derives a ticket priority from the analysis: two or more urgency
// signals, or strongly negative sentiment, escalate to high.
func (c *Classification) Priority() string {
	switch {
	case len(c.UrgencyIndicators) >= 2 || c.Sentiment <= -0.5:
		return models.PriorityHigh
	case len(c.UrgencyIndicators) == 1:
		return models.PriorityMedium
	default:
		return models.PriorityNormal
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

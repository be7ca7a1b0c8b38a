// Package triage holds the stateless classification steps applied to a
// complaint at intake: priority rules, department routing, resolution
// estimates, keyword extraction, sentiment and category scoring.
package triage

import (
	"regexp"
	"sort"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/civicdesk/grievance-service/internal/domain"
)

// DefaultKeywordCount is how many keywords intake keeps per complaint.
const DefaultKeywordCount = 5

const (
	defaultBaseHours       = 48
	defaultMultiplier      = 1.0
	fallbackDepartment     = "General Administration"
	minPriorityKeywordHits = 2
)

var (
	criticalKeywords = []string{
		"emergency", "urgent", "critical", "danger", "life", "death",
		"fire", "accident", "collapse", "explosion", "injury", "bleeding",
		"attack", "threat", "severe", "crisis",
	}
	highKeywords = []string{
		"hospital", "broken", "damaged", "leak", "flooding",
		"contaminated", "unsafe", "risk", "hazard", "exposed",
	}
	mediumKeywords = []string{
		"problem", "issue", "concern", "need", "require",
		"poor", "inadequate", "insufficient", "delayed",
	}

	// Matching is substring containment: "fire" matches "firefighters".
	criticalMatcher = ahocorasick.NewStringMatcher(criticalKeywords)
	highMatcher     = ahocorasick.NewStringMatcher(highKeywords)
	mediumMatcher   = ahocorasick.NewStringMatcher(mediumKeywords)
)

var departments = map[domain.Category]string{
	domain.CategorySanitation:     "Municipal Sanitation Department",
	domain.CategoryUtilities:      "Electricity & Water Department",
	domain.CategoryHealthcare:     "Health & Medical Services",
	domain.CategoryPublicSafety:   "Police & Security Department",
	domain.CategoryInfrastructure: "Public Works Department",
	domain.CategoryAdministration: "District Administration Office",
}

var baseHours = map[domain.Category]int{
	domain.CategorySanitation:     24,
	domain.CategoryUtilities:      48,
	domain.CategoryHealthcare:     12,
	domain.CategoryPublicSafety:   6,
	domain.CategoryInfrastructure: 72,
	domain.CategoryAdministration: 96,
}

var priorityMultipliers = map[domain.Priority]float64{
	domain.PriorityCritical: 0.25,
	domain.PriorityHigh:     0.5,
	domain.PriorityMedium:   1.0,
	domain.PriorityLow:      1.5,
}

var stopWords = map[string]struct{}{
	"the": {}, "is": {}, "at": {}, "which": {}, "on": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "with": {}, "to": {}, "for": {}, "of": {}, "as": {}, "by": {}, "this": {}, "that": {},
	"are": {}, "was": {}, "were": {}, "been": {}, "be": {}, "have": {}, "has": {}, "had": {}, "do": {},
	"does": {}, "did": {}, "will": {}, "would": {}, "should": {}, "could": {}, "may": {}, "might": {},
}

var keywordPattern = regexp.MustCompile(`\b[a-z]{4,}\b`)

// ClassifyPriority applies the keyword rules in precedence order.
// Any critical keyword wins outright; high and medium need two distinct hits.
func ClassifyPriority(text string) domain.Priority {
	data := []byte(lowerText(text))

	if len(criticalMatcher.MatchThreadSafe(data)) > 0 {
		return domain.PriorityCritical
	}
	if len(highMatcher.MatchThreadSafe(data)) >= minPriorityKeywordHits {
		return domain.PriorityHigh
	}
	if len(mediumMatcher.MatchThreadSafe(data)) >= minPriorityKeywordHits {
		return domain.PriorityMedium
	}
	return domain.PriorityLow
}

// MapDepartment routes a category to its department.
func MapDepartment(category domain.Category) string {
	if dept, ok := departments[category]; ok {
		return dept
	}
	return fallbackDepartment
}

// EstimateResolution scales the category's base turnaround by priority.
func EstimateResolution(category domain.Category, priority domain.Priority) domain.ResolutionEstimate {
	base, ok := baseHours[category]
	if !ok {
		base = defaultBaseHours
	}
	multiplier, ok := priorityMultipliers[priority]
	if !ok {
		multiplier = defaultMultiplier
	}
	return domain.ResolutionEstimate{Hours: int(float64(base) * multiplier)}
}

// ExtractKeywords returns up to topN of the most frequent alphabetic words of
// four or more letters, excluding stop words. Ties keep first-seen order.
func ExtractKeywords(text string, topN int) []string {
	if topN <= 0 {
		return []string{}
	}

	counts := make(map[string]int)
	var order []string
	for _, word := range keywordPattern.FindAllString(lowerText(text), -1) {
		if _, stop := stopWords[word]; stop {
			continue
		}
		if counts[word] == 0 {
			order = append(order, word)
		}
		counts[word]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > topN {
		order = order[:topN]
	}
	if order == nil {
		return []string{}
	}
	return order
}

func lowerText(text string) string {
	return cases.Lower(language.Und).String(text)
}

package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/civicdesk/grievance-service/internal/domain"
)

func TestClassifyPriority(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.Priority
	}{
		{name: "critical keyword", text: "There is a FIRE near the school", want: domain.PriorityCritical},
		{name: "critical beats high", text: "broken damaged pipe, urgent", want: domain.PriorityCritical},
		{name: "critical as substring", text: "Firefighters never came", want: domain.PriorityCritical},
		{name: "two high keywords", text: "The pipe is broken and there is a leak", want: domain.PriorityHigh},
		{name: "one high keyword", text: "The bench is broken", want: domain.PriorityLow},
		{name: "repeated high keyword counts once", text: "broken broken broken", want: domain.PriorityLow},
		{name: "two medium keywords", text: "Poor lighting is a problem", want: domain.PriorityMedium},
		{name: "one high one medium", text: "broken street lamp is a problem", want: domain.PriorityLow},
		{name: "no keywords", text: "Please repaint the park benches", want: domain.PriorityLow},
		{name: "empty", text: "", want: domain.PriorityLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyPriority(tt.text))
		})
	}
}

func TestClassifyPriorityAnyCriticalKeyword(t *testing.T) {
	for _, kw := range criticalKeywords {
		text := "routine request about garbage bins, broken and leaking, " + kw
		assert.Equal(t, domain.PriorityCritical, ClassifyPriority(text), kw)
	}
}

func TestMapDepartment(t *testing.T) {
	assert.Equal(t, "Municipal Sanitation Department", MapDepartment(domain.CategorySanitation))
	assert.Equal(t, "Police & Security Department", MapDepartment(domain.CategoryPublicSafety))
	assert.Equal(t, "District Administration Office", MapDepartment(domain.CategoryAdministration))
	assert.Equal(t, "General Administration", MapDepartment(domain.CategoryAdministrative))
	assert.Equal(t, "General Administration", MapDepartment(""))
	assert.Equal(t, "General Administration", MapDepartment("Space Programme"))
}

func TestEstimateResolution(t *testing.T) {
	tests := []struct {
		category domain.Category
		priority domain.Priority
		hours    int
		label    string
	}{
		{category: domain.CategoryPublicSafety, priority: domain.PriorityCritical, hours: 1, label: "1 hours"},
		{category: domain.CategoryInfrastructure, priority: domain.PriorityLow, hours: 108, label: "4 days"},
		{category: domain.CategoryHealthcare, priority: domain.PriorityHigh, hours: 6, label: "6 hours"},
		{category: domain.CategoryAdministration, priority: domain.PriorityMedium, hours: 96, label: "4 days"},
		{category: "Unknown", priority: domain.PriorityMedium, hours: 48, label: "2 days"},
		{category: domain.CategorySanitation, priority: "Unknown", hours: 24, label: "1 days"},
	}
	for _, tt := range tests {
		got := EstimateResolution(tt.category, tt.priority)
		assert.Equal(t, tt.hours, got.Hours, "%s/%s", tt.category, tt.priority)
		assert.Equal(t, tt.label, got.String(), "%s/%s", tt.category, tt.priority)
	}
}

func TestExtractKeywords(t *testing.T) {
	t.Run("frequency order with first-seen ties", func(t *testing.T) {
		text := "Garbage near the market. Garbage everywhere, drains blocked and drains smell. Market garbage."
		assert.Equal(t, []string{"garbage", "market", "drains", "near", "everywhere"}, ExtractKeywords(text, 5))
	})

	t.Run("single repeated word ranks first", func(t *testing.T) {
		got := ExtractKeywords("pothole on main road, another pothole, pothole again", 3)
		assert.Equal(t, "pothole", got[0])
		assert.Len(t, got, 3)
	})

	t.Run("drops short words and stop words", func(t *testing.T) {
		got := ExtractKeywords("This that which would should could have been were the dog cat", 10)
		assert.Empty(t, got)
	})

	t.Run("ignores tokens with digits", func(t *testing.T) {
		got := ExtractKeywords("ward12 sector route66 water", 5)
		assert.Equal(t, []string{"sector", "water"}, got)
	})

	t.Run("respects topN", func(t *testing.T) {
		got := ExtractKeywords("alpha bravo charlie delta echo foxtrot", 2)
		assert.Equal(t, []string{"alpha", "bravo"}, got)
	})

	t.Run("non-positive topN", func(t *testing.T) {
		assert.Empty(t, ExtractKeywords("streetlight broken", 0))
	})

	t.Run("never returns stop words or short tokens", func(t *testing.T) {
		got := ExtractKeywords("which would should could might have been were does will", DefaultKeywordCount)
		for _, kw := range got {
			assert.GreaterOrEqual(t, len(kw), 4)
			_, stop := stopWords[kw]
			assert.False(t, stop, kw)
		}
	})
}

func TestContactFor(t *testing.T) {
	assert.Equal(t, "pwd@municipality.gov.in", ContactFor("Public Works Department").Email)
	assert.Equal(t, "grievance@municipality.gov.in", ContactFor("General Administration").Email)
}

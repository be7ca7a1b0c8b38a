package triage

import "github.com/civicdesk/grievance-service/internal/domain"

// Assessor runs every triage step over a complaint text.
type Assessor struct {
	classifier Classifier
	sentiment  *SentimentScorer
	keywords   int
}

// NewAssessor wires the classifier and sentiment scorer. A nil classifier
// becomes the fixed fallback; a nil scorer always answers neutral.
func NewAssessor(classifier Classifier, sentiment *SentimentScorer) *Assessor {
	if classifier == nil {
		classifier = NewFixedFallback()
	}
	return &Assessor{classifier: classifier, sentiment: sentiment, keywords: DefaultKeywordCount}
}

// ClassifierName reports which classifier variant is in use.
func (a *Assessor) ClassifierName() string {
	return a.classifier.Name()
}

// Assess is pure apart from the classifier's own logging.
func (a *Assessor) Assess(text string) domain.Assessment {
	category := a.classifier.Classify(text)
	priority := ClassifyPriority(text)
	return domain.Assessment{
		Category:            category,
		Priority:            priority,
		Department:          MapDepartment(category),
		Sentiment:           a.sentiment.Score(text),
		Keywords:            ExtractKeywords(text, a.keywords),
		EstimatedResolution: EstimateResolution(category, priority),
	}
}

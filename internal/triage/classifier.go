package triage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"

	"go.uber.org/zap"

	"github.com/civicdesk/grievance-service/internal/domain"
)

// FallbackCategory is answered whenever no trained model can.
const FallbackCategory = domain.CategoryAdministrative

// Classifier assigns a category to complaint text. Implementations never fail.
type Classifier interface {
	Classify(text string) domain.Category
	Name() string
}

// Predictor is the capability a frozen model artifact provides.
type Predictor interface {
	Predict(text string) (domain.Category, error)
}

// FixedFallback always answers the same category.
type FixedFallback struct {
	category domain.Category
}

// NewFixedFallback returns the fallback classifier.
func NewFixedFallback() FixedFallback {
	return FixedFallback{category: FallbackCategory}
}

// Classify implements Classifier.
func (f FixedFallback) Classify(string) domain.Category {
	if f.category == "" {
		return FallbackCategory
	}
	return f.category
}

// Name implements Classifier.
func (FixedFallback) Name() string { return "fixed-fallback" }

// TrainedModel classifies with a loaded artifact and degrades to the
// fallback category on any scoring failure.
type TrainedModel struct {
	predictor Predictor
	fallback  FixedFallback
	logger    *zap.Logger
}

// NewTrainedModel wraps a predictor.
func NewTrainedModel(predictor Predictor, logger *zap.Logger) *TrainedModel {
	if predictor == nil {
		panic("predictor is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrainedModel{predictor: predictor, fallback: NewFixedFallback(), logger: logger}
}

// Classify implements Classifier.
func (m *TrainedModel) Classify(text string) (category domain.Category) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("category model panicked; using fallback", zap.Any("panic", r))
			category = m.fallback.Classify(text)
		}
	}()

	category, err := m.predictor.Predict(text)
	if err != nil || category == "" {
		m.logger.Warn("category model failed; using fallback", zap.Error(err))
		return m.fallback.Classify(text)
	}
	return category
}

// Name implements Classifier.
func (m *TrainedModel) Name() string { return "trained-model" }

// LoadClassifier picks the trained model when an artifact exists at path,
// the fixed fallback otherwise. It is meant to run once at startup.
func LoadClassifier(path string, logger *zap.Logger) Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path == "" {
		logger.Info("no category model configured; using fallback classifier")
		return NewFixedFallback()
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("category model not found; using fallback classifier", zap.String("path", path))
		} else {
			logger.Warn("category model unreadable; using fallback classifier", zap.String("path", path), zap.Error(err))
		}
		return NewFixedFallback()
	}
	defer f.Close()

	model, err := ParseNaiveBayesModel(f)
	if err != nil {
		logger.Warn("category model invalid; using fallback classifier", zap.String("path", path), zap.Error(err))
		return NewFixedFallback()
	}

	logger.Info("category model loaded",
		zap.String("path", path),
		zap.Int("classes", len(model.Classes)),
		zap.Int("features", len(model.FeatureLogProb)))
	return NewTrainedModel(model, logger)
}

// NaiveBayesModel is a frozen multinomial naive Bayes artifact exported by
// the offline training job.
type NaiveBayesModel struct {
	Version        int                  `json:"version"`
	Classes        []domain.Category    `json:"classes"`
	ClassLogPrior  []float64            `json:"class_log_prior"`
	FeatureLogProb map[string][]float64 `json:"feature_log_prob"`
	UnseenLogProb  []float64            `json:"unseen_log_prob,omitempty"`
	NgramMax       int                  `json:"ngram_max,omitempty"`
}

var modelTokenPattern = regexp.MustCompile(`[a-z]{2,}`)

// ParseNaiveBayesModel decodes and validates an artifact.
func ParseNaiveBayesModel(r io.Reader) (*NaiveBayesModel, error) {
	var model NaiveBayesModel
	if err := json.NewDecoder(r).Decode(&model); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if err := model.validate(); err != nil {
		return nil, err
	}
	return &model, nil
}

func (m *NaiveBayesModel) validate() error {
	n := len(m.Classes)
	if n == 0 {
		return errors.New("model has no classes")
	}
	if len(m.ClassLogPrior) != n {
		return fmt.Errorf("class_log_prior has %d entries, want %d", len(m.ClassLogPrior), n)
	}
	if m.UnseenLogProb != nil && len(m.UnseenLogProb) != n {
		return fmt.Errorf("unseen_log_prob has %d entries, want %d", len(m.UnseenLogProb), n)
	}
	for feature, probs := range m.FeatureLogProb {
		if len(probs) != n {
			return fmt.Errorf("feature %q has %d entries, want %d", feature, len(probs), n)
		}
	}
	if m.NgramMax < 0 || m.NgramMax > 3 {
		return fmt.Errorf("ngram_max %d out of range", m.NgramMax)
	}
	return nil
}

// Predict implements Predictor.
func (m *NaiveBayesModel) Predict(text string) (domain.Category, error) {
	scores := make([]float64, len(m.Classes))
	copy(scores, m.ClassLogPrior)

	for _, feature := range m.features(text) {
		probs, ok := m.FeatureLogProb[feature]
		if !ok {
			probs = m.UnseenLogProb
		}
		for i := range probs {
			scores[i] += probs[i]
		}
	}

	best := -1
	for i, score := range scores {
		if math.IsNaN(score) {
			return "", fmt.Errorf("score for class %q is NaN", m.Classes[i])
		}
		if best < 0 || score > scores[best] {
			best = i
		}
	}
	if best < 0 {
		return "", errors.New("model produced no scores")
	}
	return m.Classes[best], nil
}

func (m *NaiveBayesModel) features(text string) []string {
	var words []string
	for _, w := range modelTokenPattern.FindAllString(lowerText(text), -1) {
		if _, stop := stopWords[w]; stop {
			continue
		}
		words = append(words, w)
	}

	ngramMax := max(m.NgramMax, 1)
	features := make([]string, 0, len(words)*ngramMax)
	for n := 1; n <= ngramMax; n++ {
		for i := 0; i+n <= len(words); i++ {
			gram := words[i]
			for _, w := range words[i+1 : i+n] {
				gram += " " + w
			}
			features = append(features, gram)
		}
	}
	return features
}

package triage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/civicdesk/grievance-service/internal/domain"
)

const testModel = `{
  "version": 1,
  "classes": ["Sanitation", "Utilities", "Public Safety"],
  "class_log_prior": [-1.0986, -1.0986, -1.0986],
  "feature_log_prob": {
    "garbage":     [-1.0, -6.0, -6.0],
    "drain":       [-1.5, -5.0, -6.0],
    "electricity": [-6.0, -1.0, -6.0],
    "water":       [-4.0, -1.2, -6.0],
    "theft":       [-6.0, -6.0, -1.0],
    "street light":[-6.0, -2.0, -3.0]
  },
  "unseen_log_prob": [-8.0, -8.0, -8.0],
  "ngram_max": 2
}`

type predictorFunc func(string) (domain.Category, error)

func (f predictorFunc) Predict(text string) (domain.Category, error) { return f(text) }

func TestNaiveBayesModelPredict(t *testing.T) {
	model, err := ParseNaiveBayesModel(strings.NewReader(testModel))
	require.NoError(t, err)

	tests := []struct {
		text string
		want domain.Category
	}{
		{text: "Garbage has not been collected and the drain overflows", want: domain.CategorySanitation},
		{text: "No electricity and no water since Monday", want: domain.CategoryUtilities},
		{text: "Bicycle theft outside the station", want: domain.CategoryPublicSafety},
		{text: "The street light is off", want: domain.CategoryUtilities},
	}
	for _, tt := range tests {
		got, err := model.Predict(tt.text)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.text)
	}
}

func TestParseNaiveBayesModelValidation(t *testing.T) {
	bad := []string{
		`not json`,
		`{"classes": []}`,
		`{"classes": ["A","B"], "class_log_prior": [-1]}`,
		`{"classes": ["A"], "class_log_prior": [-1], "feature_log_prob": {"x": [-1, -2]}}`,
		`{"classes": ["A"], "class_log_prior": [-1], "unseen_log_prob": [-1, -2]}`,
		`{"classes": ["A"], "class_log_prior": [-1], "ngram_max": 9}`,
	}
	for _, raw := range bad {
		_, err := ParseNaiveBayesModel(strings.NewReader(raw))
		assert.Error(t, err, raw)
	}
}

func TestLoadClassifier(t *testing.T) {
	logger := zap.NewNop()

	t.Run("empty path uses fallback", func(t *testing.T) {
		c := LoadClassifier("", logger)
		assert.Equal(t, "fixed-fallback", c.Name())
		assert.Equal(t, domain.CategoryAdministrative, c.Classify("garbage everywhere"))
	})

	t.Run("missing artifact uses fallback", func(t *testing.T) {
		c := LoadClassifier(filepath.Join(t.TempDir(), "classifier.json"), logger)
		assert.Equal(t, "fixed-fallback", c.Name())
	})

	t.Run("malformed artifact uses fallback", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "classifier.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"classes": []}`), 0o600))

		c := LoadClassifier(path, logger)
		assert.Equal(t, "fixed-fallback", c.Name())
	})

	t.Run("valid artifact uses trained model", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "classifier.json")
		require.NoError(t, os.WriteFile(path, []byte(testModel), 0o600))

		c := LoadClassifier(path, logger)
		assert.Equal(t, "trained-model", c.Name())
		assert.Equal(t, domain.CategorySanitation, c.Classify("garbage pile near the drain"))
	})
}

func TestTrainedModelDegrades(t *testing.T) {
	t.Run("error", func(t *testing.T) {
		m := NewTrainedModel(predictorFunc(func(string) (domain.Category, error) {
			return "", errors.New("scoring failed")
		}), zap.NewNop())
		assert.Equal(t, FallbackCategory, m.Classify("anything"))
	})

	t.Run("panic", func(t *testing.T) {
		m := NewTrainedModel(predictorFunc(func(string) (domain.Category, error) {
			panic("corrupt weights")
		}), zap.NewNop())
		assert.Equal(t, FallbackCategory, m.Classify("anything"))
	})

	t.Run("empty answer", func(t *testing.T) {
		m := NewTrainedModel(predictorFunc(func(string) (domain.Category, error) {
			return "", nil
		}), zap.NewNop())
		assert.Equal(t, FallbackCategory, m.Classify("anything"))
	})

	t.Run("nil predictor panics", func(t *testing.T) {
		assert.Panics(t, func() { NewTrainedModel(nil, nil) })
	})
}

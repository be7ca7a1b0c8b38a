package triage

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"go.uber.org/zap"

	"github.com/civicdesk/grievance-service/internal/domain"
)

// Compound score thresholds for the polarity labels.
const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

const (
	normalizationAlpha = 15.0
	negationScalar     = -0.74
	boosterIncrement   = 0.293
	capsIncrement      = 0.733
	exclamationBoost   = 0.292
	maxExclamations    = 4
	butBeforeScalar    = 0.5
	butAfterScalar     = 1.5
	lookbackWindow     = 3
)

//go:embed lexicon.txt
var embeddedLexicon string

var (
	defaultLexiconOnce sync.Once
	defaultLexicon     Lexicon
)

var negations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "none": {}, "nobody": {}, "nothing": {}, "neither": {},
	"nor": {}, "nowhere": {}, "cannot": {}, "without": {}, "dont": {}, "cant": {}, "wont": {},
	"isnt": {}, "wasnt": {}, "arent": {}, "werent": {}, "doesnt": {}, "didnt": {},
}

var boosters = map[string]float64{
	"very": boosterIncrement, "extremely": boosterIncrement, "really": boosterIncrement,
	"absolutely": boosterIncrement, "completely": boosterIncrement, "totally": boosterIncrement,
	"highly": boosterIncrement, "incredibly": boosterIncrement, "utterly": boosterIncrement,
	"so": boosterIncrement, "too": boosterIncrement, "deeply": boosterIncrement,
	"slightly": -boosterIncrement, "somewhat": -boosterIncrement, "barely": -boosterIncrement,
	"hardly": -boosterIncrement, "marginally": -boosterIncrement, "partly": -boosterIncrement,
}

var boosterDecay = [lookbackWindow + 1]float64{0, 1, 0.95, 0.9}

// Lexicon maps a lower-case word to its valence.
type Lexicon map[string]float64

// ParseLexicon reads word<TAB>valence lines; extra columns are ignored.
func ParseLexicon(r io.Reader) (Lexicon, error) {
	lex := make(Lexicon)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, fmt.Errorf("lexicon line %d: expected word and valence", line)
		}
		valence, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("lexicon line %d: %w", line, err)
		}
		lex[strings.ToLower(fields[0])] = valence
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lex) == 0 {
		return nil, errors.New("lexicon is empty")
	}
	return lex, nil
}

// LoadLexicon reads a lexicon file from disk.
func LoadLexicon(path string) (Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseLexicon(f)
}

// DefaultLexicon returns the lexicon compiled into the binary.
func DefaultLexicon() Lexicon {
	defaultLexiconOnce.Do(func() {
		lex, err := ParseLexicon(strings.NewReader(embeddedLexicon))
		if err != nil {
			panic(fmt.Sprintf("embedded lexicon: %v", err))
		}
		defaultLexicon = lex
	})
	return defaultLexicon
}

// SentimentScorer computes a valence-based compound polarity score.
// A scorer without a lexicon reports every text as Neutral.
type SentimentScorer struct {
	lexicon Lexicon
}

// NewSentimentScorer wraps a lexicon. A nil or empty lexicon yields a scorer
// that always answers {Neutral, 0}.
func NewSentimentScorer(lexicon Lexicon) *SentimentScorer {
	return &SentimentScorer{lexicon: lexicon}
}

// LoadSentimentScorer uses the lexicon at path, or the embedded one when path
// is empty. A lexicon that cannot be loaded degrades to the neutral scorer.
func LoadSentimentScorer(path string, logger *zap.Logger) *SentimentScorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path == "" {
		return NewSentimentScorer(DefaultLexicon())
	}
	lex, err := LoadLexicon(path)
	if err != nil {
		logger.Warn("sentiment lexicon unavailable; scoring everything neutral",
			zap.String("path", path), zap.Error(err))
		return NewSentimentScorer(nil)
	}
	logger.Info("sentiment lexicon loaded", zap.String("path", path), zap.Int("words", len(lex)))
	return NewSentimentScorer(lex)
}

// Available reports whether a lexicon backs the scorer.
func (s *SentimentScorer) Available() bool {
	return s != nil && len(s.lexicon) > 0
}

// Score never fails; unavailable scorers return {Neutral, 0}.
func (s *SentimentScorer) Score(text string) domain.Sentiment {
	if !s.Available() {
		return domain.Sentiment{Label: domain.SentimentNeutral}
	}

	tokens := tokenize(text)
	if len(tokens) == 0 {
		return domain.Sentiment{Label: domain.SentimentNeutral}
	}

	capsDifferential := hasCapsDifferential(tokens)
	lowered := make([]string, len(tokens))
	for i, tok := range tokens {
		lowered[i] = strings.ReplaceAll(strings.ToLower(tok), "'", "")
	}

	valences := make([]float64, len(tokens))
	for i, word := range lowered {
		if _, ok := boosters[word]; ok {
			continue
		}
		v, ok := s.lexicon[word]
		if !ok || v == 0 {
			continue
		}
		if capsDifferential && isShouted(tokens[i]) {
			v += math.Copysign(capsIncrement, v)
		}
		negated := false
		for dist := 1; dist <= lookbackWindow && i-dist >= 0; dist++ {
			prev := lowered[i-dist]
			if inc, ok := boosters[prev]; ok {
				v += math.Copysign(1, v) * inc * boosterDecay[dist]
			}
			if isNegation(prev) {
				negated = true
			}
		}
		if negated {
			v *= negationScalar
		}
		valences[i] = v
	}

	for i, word := range lowered {
		if word != "but" {
			continue
		}
		for j := range valences {
			switch {
			case j < i:
				valences[j] *= butBeforeScalar
			case j > i:
				valences[j] *= butAfterScalar
			}
		}
		break
	}

	return summarize(valences, strings.Count(text, "!"))
}

func summarize(valences []float64, exclamations int) domain.Sentiment {
	var sum, pos, neg, neu float64
	for _, v := range valences {
		sum += v
		switch {
		case v > 0:
			pos += v + 1
		case v < 0:
			neg += v - 1
		default:
			neu++
		}
	}

	var compound float64
	if sum != 0 {
		emphasis := float64(min(exclamations, maxExclamations)) * exclamationBoost
		sum += math.Copysign(emphasis, sum)
		if pos > math.Abs(neg) {
			pos += emphasis
		} else if pos < math.Abs(neg) {
			neg -= emphasis
		}
		compound = sum / math.Sqrt(sum*sum+normalizationAlpha)
		compound = math.Max(-1, math.Min(1, compound))
	}

	total := pos + math.Abs(neg) + neu
	result := domain.Sentiment{Score: round3(compound)}
	if total > 0 {
		result.Positive = round3(math.Abs(pos / total))
		result.Negative = round3(math.Abs(neg / total))
		result.Neutral = round3(math.Abs(neu / total))
	}

	switch {
	case compound >= PositiveThreshold:
		result.Label = domain.SentimentPositive
	case compound <= NegativeThreshold:
		result.Label = domain.SentimentNegative
	default:
		result.Label = domain.SentimentNeutral
	}
	return result
}

func tokenize(text string) []string {
	raw := strings.Fields(text)
	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		tok = strings.TrimFunc(tok, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func isNegation(word string) bool {
	if _, ok := negations[word]; ok {
		return true
	}
	return strings.HasSuffix(word, "nt") && len(word) > 3 && negationStem(word)
}

// negationStem catches contractions like "shouldnt" once apostrophes are dropped.
func negationStem(word string) bool {
	switch strings.TrimSuffix(word, "nt") {
	case "should", "would", "could", "has", "have", "had", "must", "need", "ai":
		return true
	}
	return false
}

func isShouted(tok string) bool {
	hasLetter := false
	for _, r := range tok {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func hasCapsDifferential(tokens []string) bool {
	shouted := 0
	for _, tok := range tokens {
		if isShouted(tok) {
			shouted++
		}
	}
	return shouted > 0 && shouted < len(tokens)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Command triage runs the intake classification over complaint text without
// touching storage and prints the assessment as JSON.
//
//	triage "Water pipe burst near the school"
//	echo "Garbage everywhere" | triage --model model/classifier.json
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/civicdesk/grievance-service/internal/api/dto"
	"github.com/civicdesk/grievance-service/internal/config"
	"github.com/civicdesk/grievance-service/internal/observability"
	"github.com/civicdesk/grievance-service/internal/triage"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "triage:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	flags := pflag.NewFlagSet("triage", pflag.ContinueOnError)
	modelPath := flags.StringP("model", "m", "", "naive-bayes model artifact (JSON); empty uses the fallback category")
	lexiconPath := flags.String("lexicon", "", "sentiment lexicon file; empty uses the embedded lexicon")
	keywords := flags.IntP("keywords", "k", triage.DefaultKeywordCount, "number of keywords to extract")
	pretty := flags.BoolP("pretty", "p", false, "indent JSON output")
	logLevel := flags.String("log-level", "warn", "log level for diagnostics on stderr")
	if err := flags.Parse(args); err != nil {
		return err
	}

	logger, err := observability.NewLogger(config.LoggerConfig{Level: *logLevel})
	if err != nil {
		logger = zap.NewNop()
	}
	defer logger.Sync() //nolint:errcheck

	text := strings.TrimSpace(strings.Join(flags.Args(), " "))
	if text == "" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = strings.TrimSpace(string(raw))
	}
	if text == "" {
		return fmt.Errorf("no complaint text given")
	}

	var classifier triage.Classifier = triage.NewFixedFallback()
	if *modelPath != "" {
		classifier = triage.LoadClassifier(*modelPath, logger)
	}
	assessor := triage.NewAssessor(classifier, triage.LoadSentimentScorer(*lexiconPath, logger))

	assessment := assessor.Assess(text)
	if *keywords != triage.DefaultKeywordCount {
		assessment.Keywords = triage.ExtractKeywords(text, *keywords)
	}

	out := struct {
		Classifier string `json:"classifier"`
		dto.AssessmentResponse
	}{
		Classifier:         assessor.ClassifierName(),
		AssessmentResponse: dto.NewAssessmentResponse(assessment),
	}

	enc := json.NewEncoder(stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}

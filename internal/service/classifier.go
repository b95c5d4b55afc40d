package service

import (
	"context"
	"fmt"
	"strings"

	"chatdesk/internal/models"

	"go.uber.org/zap"
)

// Classifier maps free text onto one of the registry's departments, or
// nil when nothing matches. Implementations must never fail hard: any
// internal error degrades to a nil match.
type Classifier interface {
	Classify(ctx context.Context, text string, departments []models.Department) *models.Department
}

// KeywordClassifier matches by lowercased substring. Departments are
// checked in registry order and the first match wins, so earlier
// departments take priority on ambiguous input. Matching is deliberately
// substring-based, not word-boundary based.
type KeywordClassifier struct{}

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

func (c *KeywordClassifier) Classify(_ context.Context, text string, departments []models.Department) *models.Department {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return nil
	}

	for i := range departments {
		for _, keyword := range departments[i].Keywords {
			keyword = strings.ToLower(strings.TrimSpace(keyword))
			if keyword == "" {
				continue
			}
			if strings.Contains(normalized, keyword) {
				return &departments[i]
			}
		}
	}

	return nil
}

// SemanticClassifier asks the generator to pick a department under a
// constrained prompt: the model must answer with exactly one department
// name or GENERAL. Transport failures and unrecognized answers both
// degrade to no match.
type SemanticClassifier struct {
	generator Generator
	logger    *zap.Logger
}

func NewSemanticClassifier(generator Generator, logger *zap.Logger) *SemanticClassifier {
	return &SemanticClassifier{
		generator: generator,
		logger:    logger,
	}
}

func (c *SemanticClassifier) Classify(ctx context.Context, text string, departments []models.Department) *models.Department {
	if strings.TrimSpace(text) == "" || len(departments) == 0 {
		return nil
	}

	system := buildClassificationContext(departments)

	answer, err := c.generator.Complete(ctx, system, text)
	if err != nil {
		c.logger.Warn("Semantic classification failed, treating as no match", zap.Error(err))
		return nil
	}

	token := cleanupToken(answer)
	if strings.EqualFold(token, models.GeneralDepartment) {
		return nil
	}

	for i := range departments {
		if strings.EqualFold(departments[i].Name, token) {
			return &departments[i]
		}
	}

	c.logger.Warn("Semantic classifier returned unknown department",
		zap.String("answer", answer),
	)
	return nil
}

func buildClassificationContext(departments []models.Department) string {
	var builder strings.Builder
	builder.WriteString("You route customer support messages to a department.\n")
	builder.WriteString("Departments:\n")
	for _, dept := range departments {
		builder.WriteString(fmt.Sprintf("- %s (topics: %s)\n", dept.Name, strings.Join(dept.Keywords, ", ")))
	}
	builder.WriteString("\nReply with exactly one department name from the list above.\n")
	builder.WriteString("If the message fits none of them, reply with exactly: GENERAL\n")
	builder.WriteString("Do not add any other words, punctuation or explanation.")
	return builder.String()
}

// cleanupToken strips the quoting and trailing punctuation models tend to
// add around a single-word answer.
func cleanupToken(answer string) string {
	token := strings.TrimSpace(answer)
	token = strings.Trim(token, "\"'`")
	token = strings.TrimSuffix(token, ".")
	if idx := strings.IndexAny(token, "\n"); idx >= 0 {
		token = token[:idx]
	}
	return strings.TrimSpace(token)
}

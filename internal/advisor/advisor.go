// Package advisor turns an institute snapshot into consultant-style insights.
// It never fails: every problem is reported as a fixed fallback text.
package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/eduflow-api/internal/dto"
)

// Fallback texts returned instead of an error.
const (
	MessageNotConfigured = "API Key not configured. Unable to fetch AI insights."
	MessageFailed        = "Failed to generate insights. Please try again later."
)

const promptTemplate = `Act as an educational institute consultant. Analyze the following JSON data representing our school's current state.
Data: %s

Provide a brief, bulleted report (Markdown format) covering:
1. Revenue Analysis (Projected vs Actual).
2. Student Attendance trends (identify low attendance).
3. Teacher Performance (based on class sizes/popularity).
4. One specific recommendation for improvement.

Keep it concise and professional.`

// Generator produces free text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Advisor wraps a Generator with the prompt and the fallback policy.
type Advisor struct {
	generator Generator
	timeout   time.Duration
	logger    *zap.Logger
}

// New constructs an Advisor. A nil generator means no API key was configured.
func New(generator Generator, timeout time.Duration, logger *zap.Logger) *Advisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Advisor{generator: generator, timeout: timeout, logger: logger}
}

// Configured reports whether a generator is available.
func (a *Advisor) Configured() bool {
	return a != nil && a.generator != nil
}

// Insights returns the generated report, or a fallback text on any failure.
func (a *Advisor) Insights(ctx context.Context, snapshot dto.TenantSnapshot) string {
	if !a.Configured() {
		return MessageNotConfigured
	}

	prompt, err := BuildPrompt(snapshot)
	if err != nil {
		a.logger.Warn("encode advisor snapshot", zap.Error(err))
		return MessageFailed
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	text, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		a.logger.Warn("advisor generation failed", zap.Error(err))
		return MessageFailed
	}
	return text
}

// BuildPrompt embeds the JSON snapshot into the consultant prompt.
func BuildPrompt(snapshot dto.TenantSnapshot) (string, error) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(promptTemplate, payload), nil
}

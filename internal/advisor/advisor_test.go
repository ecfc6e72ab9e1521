package advisor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eduflow-api/internal/dto"
	"github.com/noah-isme/eduflow-api/internal/models"
)

type fakeGenerator struct {
	text   string
	err    error
	prompt string
	wait   bool
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	if f.wait {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.text, f.err
}

func TestInsightsNotConfigured(t *testing.T) {
	a := New(nil, time.Second, nil)
	assert.False(t, a.Configured())
	assert.Equal(t, MessageNotConfigured, a.Insights(context.Background(), dto.TenantSnapshot{}))
}

func TestInsightsReturnsGeneratedText(t *testing.T) {
	gen := &fakeGenerator{text: "- revenue is up"}
	a := New(gen, time.Second, nil)

	snapshot := dto.TenantSnapshot{Students: []models.Student{{ID: "s1", Name: "Bart Simpson"}}}
	assert.Equal(t, "- revenue is up", a.Insights(context.Background(), snapshot))
	assert.Contains(t, gen.prompt, "Bart Simpson")
	assert.Contains(t, gen.prompt, "One specific recommendation")
}

func TestInsightsFallsBackOnError(t *testing.T) {
	a := New(&fakeGenerator{err: errors.New("quota exceeded")}, time.Second, nil)
	assert.Equal(t, MessageFailed, a.Insights(context.Background(), dto.TenantSnapshot{}))
}

func TestInsightsFallsBackOnTimeout(t *testing.T) {
	a := New(&fakeGenerator{wait: true}, 10*time.Millisecond, nil)
	assert.Equal(t, MessageFailed, a.Insights(context.Background(), dto.TenantSnapshot{}))
}

func TestBuildPromptEmbedsEmptyCollections(t *testing.T) {
	prompt, err := BuildPrompt(dto.TenantSnapshot{})
	require.NoError(t, err)
	assert.Contains(t, prompt, `"students":null`)
}

func TestNewGeminiGeneratorRequiresKey(t *testing.T) {
	_, err := NewGeminiGenerator(context.Background(), "", "")
	assert.Error(t, err)
}

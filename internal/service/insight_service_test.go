package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eduflow-api/internal/advisor"
	"github.com/noah-isme/eduflow-api/internal/dto"
	appErrors "github.com/noah-isme/eduflow-api/pkg/errors"
)

type stubGenerator struct {
	text    string
	err     error
	calls   atomic.Int32
	started chan string
	release chan struct{}
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls.Add(1)
	if g.started != nil {
		g.started <- prompt
	}
	if g.release != nil {
		<-g.release
	}
	return g.text, g.err
}

func waitForInsight(t *testing.T, svc *InsightService, principalCtx context.Context) *dto.InsightResponse {
	t.Helper()
	var latest *dto.InsightResponse
	require.Eventually(t, func() bool {
		resp, err := svc.Latest(principalCtx)
		if err != nil || resp.Status != dto.InsightStatusReady {
			return false
		}
		latest = resp
		return true
	}, 2*time.Second, 10*time.Millisecond)
	return latest
}

func TestInsightGenerateWithoutKey(t *testing.T) {
	f := newFixture(t)
	svc := f.insights(t, nil)

	resp, err := svc.Generate(as(managerPrincipal))
	require.NoError(t, err)
	assert.Equal(t, dto.InsightStatusReady, resp.Status)
	assert.Equal(t, advisor.MessageNotConfigured, resp.Text)
}

func TestInsightGeneratorFailureFallsBack(t *testing.T) {
	f := newFixture(t)
	svc := f.insights(t, &stubGenerator{err: errors.New("quota exceeded")})

	resp, err := svc.Generate(as(managerPrincipal))
	require.NoError(t, err)
	assert.Equal(t, advisor.MessageFailed, resp.Text)
}

func TestInsightRequestRunsInBackground(t *testing.T) {
	f := newFixture(t)
	gen := &stubGenerator{text: "- Revenue is on track"}
	svc := f.insights(t, gen)

	_, err := svc.Latest(as(managerPrincipal))
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	svc.Start(context.Background())
	defer svc.Stop()

	queued, err := svc.Request(as(managerPrincipal))
	require.NoError(t, err)
	assert.NotEmpty(t, queued.JobID)

	ready := waitForInsight(t, svc, as(managerPrincipal))
	assert.Equal(t, "- Revenue is on track", ready.Text)
	assert.Equal(t, queued.JobID, ready.JobID)
	require.NotNil(t, ready.CompletedAt)

	// Results never leak to another institute.
	_, err = svc.Latest(as(pendingManager))
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestInsightRequestCoalescesWhilePending(t *testing.T) {
	f := newFixture(t)
	gen := &stubGenerator{text: "ok", started: make(chan string, 1), release: make(chan struct{})}
	svc := f.insights(t, gen)
	svc.Start(context.Background())
	defer svc.Stop()

	first, err := svc.Request(as(managerPrincipal))
	require.NoError(t, err)
	prompt := <-gen.started
	assert.Contains(t, prompt, "Physics 101")

	second, err := svc.Request(as(managerPrincipal))
	require.NoError(t, err)
	assert.Equal(t, first.JobID, second.JobID)

	close(gen.release)
	waitForInsight(t, svc, as(managerPrincipal))
	assert.Equal(t, int32(1), gen.calls.Load())
}

func TestInsightRequestGuards(t *testing.T) {
	f := newFixture(t)
	svc := f.insights(t, nil)

	_, err := svc.Request(as(managerPrincipal))
	assert.True(t, appErrors.Is(err, appErrors.ErrUnavailable))
	_, err = svc.Latest(as(managerPrincipal))
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	_, err = svc.Request(as(adminPrincipal))
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}

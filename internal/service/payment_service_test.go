package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eduflow-api/internal/models"
	appErrors "github.com/noah-isme/eduflow-api/pkg/errors"
)

func TestTogglePaymentIsAnInvolution(t *testing.T) {
	f := newFixture(t)
	f.payments.now = fixedClock("2023-10-12T09:30:00Z")
	ctx := as(managerPrincipal)
	req := models.TogglePaymentRequest{StudentID: "s2", ClassID: "c1", Month: "2023-10"}

	paid, err := f.payments.Toggle(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "p2", paid.ID)
	assert.Equal(t, models.PaymentPaid, paid.Status)
	require.NotNil(t, paid.DatePaid)
	assert.Equal(t, time.Date(2023, 10, 12, 0, 0, 0, 0, time.UTC), *paid.DatePaid)

	pending, err := f.payments.Toggle(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "p2", pending.ID)
	assert.Equal(t, models.PaymentPending, pending.Status)
	assert.Nil(t, pending.DatePaid)
	assert.Equal(t, 100.0, pending.Amount)
}

func TestTogglePaymentCreatesRecordAtClassFee(t *testing.T) {
	f := newFixture(t)
	ctx := as(managerPrincipal)

	created, err := f.payments.Toggle(ctx, models.TogglePaymentRequest{StudentID: "s3", ClassID: "c2", Month: "2023-11"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.PaymentPaid, created.Status)
	assert.Equal(t, 120.0, created.Amount)

	custom, err := f.payments.Toggle(ctx, models.TogglePaymentRequest{StudentID: "s4", ClassID: "c2", Month: "2023-11", Amount: 60})
	require.NoError(t, err)
	assert.Equal(t, 60.0, custom.Amount)

	november, err := f.payments.List(ctx, "2023-11")
	require.NoError(t, err)
	assert.Len(t, november, 2)

	history, err := f.payments.History(ctx, "s3", "c2")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, created.ID, history[0].ID)
}

func TestTogglePaymentGuards(t *testing.T) {
	f := newFixture(t)

	_, err := f.payments.Toggle(as(teacherPrincipal), models.TogglePaymentRequest{StudentID: "s1", ClassID: "c1", Month: "2023-10"})
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))

	_, err = f.payments.Toggle(as(managerPrincipal), models.TogglePaymentRequest{StudentID: "s1", ClassID: "c1", Month: "October"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = f.payments.Toggle(as(managerPrincipal), models.TogglePaymentRequest{StudentID: "s1", ClassID: "c9", Month: "2023-10"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = f.payments.Toggle(as(pendingManager), models.TogglePaymentRequest{StudentID: "s1", ClassID: "c1", Month: "2023-10"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = f.payments.List(as(managerPrincipal), "2023-13")
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

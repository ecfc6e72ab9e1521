package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/eduflow-api/internal/models"
	appErrors "github.com/noah-isme/eduflow-api/pkg/errors"
)

func TestMarkDayReplacesTheWholeDay(t *testing.T) {
	f := newFixture(t)
	ctx := as(teacherPrincipal)

	records, err := f.attendance.MarkDay(ctx, models.MarkDayRequest{
		ClassID: "c1",
		Date:    "2023-10-01",
		Entries: map[string]models.AttendanceStatus{"s1": models.AttendanceLate, "s5": models.AttendancePresent},
	})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "s1", records[0].StudentID)

	day, _ := time.Parse(models.DateLayout, "2023-10-01")
	stored, err := f.attendance.List(ctx, models.AttendanceFilter{ClassID: "c1", Date: &day})
	require.NoError(t, err)
	require.Len(t, stored, 2)
	byStudent := map[string]models.AttendanceStatus{}
	for _, r := range stored {
		byStudent[r.StudentID] = r.Status
	}
	assert.Equal(t, map[string]models.AttendanceStatus{"s1": models.AttendanceLate, "s5": models.AttendancePresent}, byStudent)
}

func TestMarkDayOwnershipAndValidation(t *testing.T) {
	f := newFixture(t)
	ctx := as(teacherPrincipal)

	_, err := f.attendance.MarkDay(ctx, models.MarkDayRequest{ClassID: "c2", Date: "2023-10-02", Entries: map[string]models.AttendanceStatus{"s1": models.AttendancePresent}})
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))

	_, err = f.attendance.MarkDay(ctx, models.MarkDayRequest{ClassID: "c1", Date: "2023-10-02", Entries: map[string]models.AttendanceStatus{"s3": models.AttendancePresent}})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = f.attendance.MarkDay(ctx, models.MarkDayRequest{ClassID: "c1", Date: "2023-10-02", Entries: map[string]models.AttendanceStatus{"s1": "SICK"}})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = f.attendance.MarkDay(ctx, models.MarkDayRequest{ClassID: "c1", Date: "02/10/2023"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	missing, err := f.attendance.MarkDay(ctx, models.MarkDayRequest{ClassID: "c404", Date: "2023-10-02"})
	require.NoError(t, err)
	assert.Nil(t, missing)

	// Managers mark any class of their institute.
	_, err = f.attendance.MarkDay(as(managerPrincipal), models.MarkDayRequest{ClassID: "c2", Date: "2023-10-02", Entries: map[string]models.AttendanceStatus{"s1": models.AttendanceAbsent}})
	require.NoError(t, err)
}

func TestAttendanceListIsNarrowedForTeachers(t *testing.T) {
	f := newFixture(t)
	_, err := f.attendance.MarkDay(as(managerPrincipal), models.MarkDayRequest{ClassID: "c2", Date: "2023-10-03", Entries: map[string]models.AttendanceStatus{"s3": models.AttendancePresent}})
	require.NoError(t, err)

	own, err := f.attendance.List(as(teacherPrincipal), models.AttendanceFilter{})
	require.NoError(t, err)
	assert.Len(t, own, 3)
	for _, r := range own {
		assert.Equal(t, "c1", r.ClassID)
	}

	all, err := f.attendance.List(as(managerPrincipal), models.AttendanceFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	_, err = f.attendance.List(as(adminPrincipal), models.AttendanceFilter{})
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}

func TestStudentAttendanceStats(t *testing.T) {
	f := newFixture(t)
	_, err := f.attendance.MarkDay(as(teacherPrincipal), models.MarkDayRequest{ClassID: "c1", Date: "2023-10-08", Entries: map[string]models.AttendanceStatus{"s5": models.AttendanceLate}})
	require.NoError(t, err)

	stats, err := f.attendance.StudentStats(as(teacherPrincipal), "s5", "c1")
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceStats{Total: 2, Present: 0, Late: 1, Absent: 1}, stats)

	_, err = f.attendance.StudentStats(as(teacherPrincipal), "s1", "c2")
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}

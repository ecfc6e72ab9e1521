package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/eduflow-api/internal/models"
	"github.com/noah-isme/eduflow-api/internal/views"
)

type attendanceLister interface {
	List(ctx context.Context, tenantID string, filter models.AttendanceFilter) ([]models.AttendanceRecord, error)
}

// TenantSources are the stores a full tenant read fans out to.
type TenantSources struct {
	Students   studentLister
	Teachers   teacherLister
	Classes    classLister
	Attendance attendanceLister
	Payments   paymentLister
}

// TenantLoader reads every collection of one institute concurrently.
type TenantLoader struct {
	src     TenantSources
	metrics *MetricsService
}

// NewTenantLoader constructs a TenantLoader.
func NewTenantLoader(src TenantSources, metrics *MetricsService) *TenantLoader {
	return &TenantLoader{src: src, metrics: metrics}
}

// Load returns the collections visible to principal. Teachers get their own
// classes, the students enrolled in them, their own record and no payments.
func (l *TenantLoader) Load(ctx context.Context, principal *models.Principal) (views.Collections, error) {
	var out views.Collections
	tenantID := principal.TenantID
	teacherID := ""
	teacherScoped := principal.Role == models.RoleTeacher
	if teacherScoped {
		teacherID = principal.TeacherID
		if teacherID == "" {
			return out, nil
		}
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Students, err = l.src.Students.List(gctx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		out.Teachers, err = l.src.Teachers.List(gctx, tenantID)
		return err
	})
	g.Go(func() (err error) {
		out.Classes, err = l.src.Classes.List(gctx, tenantID, teacherID)
		return err
	})
	g.Go(func() (err error) {
		out.Attendance, err = l.src.Attendance.List(gctx, tenantID, models.AttendanceFilter{TeacherID: teacherID})
		return err
	})
	if !teacherScoped {
		g.Go(func() (err error) {
			out.Payments, err = l.src.Payments.List(gctx, tenantID, "")
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return views.Collections{}, err
	}
	l.metrics.ObserveDBQuery("tenant_snapshot", time.Since(start))

	if teacherScoped {
		out = narrowToTeacher(out, teacherID)
	}
	if out.Payments == nil {
		out.Payments = []models.PaymentRecord{}
	}
	return out, nil
}

func narrowToTeacher(in views.Collections, teacherID string) views.Collections {
	enrolled := map[string]struct{}{}
	for _, class := range in.Classes {
		for _, id := range class.StudentIDs {
			enrolled[id] = struct{}{}
		}
	}
	students := make([]models.Student, 0, len(enrolled))
	for _, st := range in.Students {
		if _, ok := enrolled[st.ID]; ok {
			students = append(students, st)
		}
	}
	teachers := make([]models.Teacher, 0, 1)
	for _, t := range in.Teachers {
		if t.ID == teacherID {
			teachers = append(teachers, t)
		}
	}
	in.Students, in.Teachers = students, teachers
	return in
}

package cron

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-classifier/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePunchRepo struct {
	attendance.PunchRepository
	companies map[string][]string
}

func (f *fakePunchRepo) ListCompaniesWithPunches(ctx context.Context, monthKey string) ([]string, error) {
	return f.companies[monthKey], nil
}

type recordingService struct {
	attendance.AttendanceService
	mu       sync.Mutex
	requests []attendance.RecalculateRequest
	failFor  string
}

func (s *recordingService) Recalculate(ctx context.Context, req attendance.RecalculateRequest) (attendance.RecalculateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if req.CompanyID == s.failFor {
		return attendance.RecalculateResponse{}, attendance.ErrNoPunchesForMonth
	}
	return attendance.RecalculateResponse{RunID: "run-" + req.CompanyID, Month: req.Month}, nil
}

func newTestJobs(companies map[string][]string, svc *recordingService) *RecalculationJobs {
	jobs := NewRecalculationJobs(&fakePunchRepo{companies: companies}, svc)
	jobs.now = func() time.Time { return time.Date(2024, time.January, 20, 8, 0, 0, 0, time.UTC) }
	return jobs
}

func TestRecalculateCurrentMonth(t *testing.T) {
	svc := &recordingService{}
	jobs := newTestJobs(map[string][]string{"JAN-2024": {"c1", "c2"}}, svc)

	require.NoError(t, jobs.RecalculateCurrentMonth(context.Background()))

	require.Len(t, svc.requests, 2)
	assert.Equal(t, attendance.RecalculateRequest{Month: "JAN-2024", CompanyID: "c1"}, svc.requests[0])
	assert.Equal(t, "c2", svc.requests[1].CompanyID)
}

func TestRecalculateCurrentMonth_ContinuesAfterFailure(t *testing.T) {
	svc := &recordingService{failFor: "c1"}
	jobs := newTestJobs(map[string][]string{"JAN-2024": {"c1", "c2"}}, svc)

	err := jobs.RecalculateCurrentMonth(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, attendance.ErrNoPunchesForMonth))
	assert.Len(t, svc.requests, 2)
}

func TestRecalculateCurrentMonth_NoCompanies(t *testing.T) {
	svc := &recordingService{}
	jobs := newTestJobs(map[string][]string{}, svc)

	require.NoError(t, jobs.RecalculateCurrentMonth(context.Background()))
	assert.Empty(t, svc.requests)
}

func TestScheduler_RegisterAndRun(t *testing.T) {
	svc := &recordingService{}
	jobs := newTestJobs(map[string][]string{"JAN-2024": {"c1"}}, svc)

	scheduler := NewScheduler()
	jobs.RegisterJobs(scheduler, time.Hour)
	assert.Equal(t, []string{RecalculateCurrentMonthJob}, scheduler.JobNames())

	scheduler.RunOnce(context.Background())
	require.Len(t, svc.requests, 1)
}

func TestScheduler_StartStop(t *testing.T) {
	ran := make(chan struct{}, 1)
	scheduler := NewScheduler()
	scheduler.AddJob("ping", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	scheduler.Start()
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
	scheduler.Stop()
}

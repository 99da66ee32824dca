package service

import (
	"context"
	"sort"

	"github.com/propinspect/inspection-planner/internal/config"
	"github.com/propinspect/inspection-planner/internal/store"
	"github.com/propinspect/inspection-planner/internal/store/model"
	"github.com/propinspect/inspection-planner/pkg/log"
	"golang.org/x/sync/errgroup"
)

// Candidate is a person eligible for a new inspection on a date.
type Candidate struct {
	Person   model.Person     `json:"person"`
	Workload WorkloadSnapshot `json:"workload"`
}

type AvailabilityService struct {
	store       store.Store
	workload    *WorkloadService
	concurrency int
	logger      *log.StructuredLogger
}

func NewAvailabilityService(store store.Store, workload *WorkloadService, cfg *config.SchedulingConfig) *AvailabilityService {
	concurrency := cfg.AvailabilityConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &AvailabilityService{
		store:       store,
		workload:    workload,
		concurrency: concurrency,
		logger:      log.NewDebugLogger("availability_service"),
	}
}

func (a *AvailabilityService) AvailableSupervisors(ctx context.Context, date model.Date) ([]Candidate, error) {
	return a.available(ctx, model.RoleSupervisor, date)
}

func (a *AvailabilityService) AvailableInspectors(ctx context.Context, date model.Date) ([]Candidate, error) {
	return a.available(ctx, model.RoleInspector, date)
}

// available lists the persons of role marked available whose active count on
// date is below capacity, least loaded first then by name. The result is a
// hint: the assignment path checks capacity again under lock.
func (a *AvailabilityService) available(ctx context.Context, role model.Role, date model.Date) ([]Candidate, error) {
	tracer := a.logger.WithContext(ctx).
		Operation("available_"+string(role)+"s").
		WithStringer("date", date).
		Build()

	if date.IsZero() {
		return nil, NewErrInvalidDate(date, "date is required")
	}
	if date.Before(a.workload.Today()) {
		err := NewErrInvalidDate(date, "date is in the past")
		tracer.Warn(err).Log()
		return nil, err
	}

	persons, err := a.store.Person().List(ctx, store.NewPersonQueryFilter().ByRole(role).ByAvailability(model.AvailabilityAvailable))
	if err != nil {
		tracer.Error(err).Log()
		return nil, classifyStoreError(err)
	}
	tracer.Step("persons_listed").WithInt("count", len(persons)).Log()

	snapshots := make([]WorkloadSnapshot, len(persons))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i := range persons {
		g.Go(func() error {
			s, err := a.workload.snapshot(gctx, persons[i], date)
			if err != nil {
				return err
			}
			snapshots[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		tracer.Error(err).Log()
		return nil, err
	}

	candidates := make([]Candidate, 0, len(persons))
	for i, p := range persons {
		if !a.workload.capacity.HasRoom(role, snapshots[i].Active) {
			continue
		}
		candidates = append(candidates, Candidate{Person: p, Workload: snapshots[i]})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		ci, cj := candidates[i], candidates[j]
		if ci.Workload.Active != cj.Workload.Active {
			return ci.Workload.Active < cj.Workload.Active
		}
		if ci.Person.Name != cj.Person.Name {
			return ci.Person.Name < cj.Person.Name
		}
		return ci.Person.ID.String() < cj.Person.ID.String()
	})

	tracer.Success().WithInt("eligible", len(candidates)).Log()
	return candidates, nil
}

package v1

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	api "github.com/propinspect/inspection-planner/api/v1"
	"github.com/propinspect/inspection-planner/internal/auth"
	"github.com/propinspect/inspection-planner/internal/handlers/v1/mappers"
	"github.com/propinspect/inspection-planner/internal/handlers/validator"
	"github.com/propinspect/inspection-planner/internal/service"
	"go.uber.org/zap"
)

type ServiceHandler struct {
	availabilitySrv *service.AvailabilityService
	assignmentSrv   *service.AssignmentService
	workloadSrv     *service.WorkloadService
	validator       *validator.Validator
}

func NewServiceHandler(availabilityService *service.AvailabilityService, assignmentService *service.AssignmentService, workloadService *service.WorkloadService) *ServiceHandler {
	v := validator.NewValidator()
	v.Register(validator.NewSchedulingValidationRules()...)
	v.Register(validator.NewStatusValidationRules()...)

	return &ServiceHandler{
		availabilitySrv: availabilityService,
		assignmentSrv:   assignmentService,
		workloadSrv:     workloadService,
		validator:       v,
	}
}

// Routes mounts the scheduling API under /api/v1. writeGuard, when not nil,
// wraps the operations that create or change inspections.
func (h *ServiceHandler) Routes(r chi.Router, writeGuard func(http.Handler) http.Handler) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/supervisors/availability/check", h.AvailableSupervisors)
		r.Get("/inspectors/availability/check", h.AvailableInspectors)
		r.Get("/supervisors/{id}/workload", h.SupervisorWorkload)
		r.Get("/inspectors/{id}/workload", h.InspectorWorkload)
		r.Get("/inspections", h.ListInspections)
		r.Get("/inspections/{id}", h.GetInspection)

		r.Group(func(r chi.Router) {
			if writeGuard != nil {
				r.Use(writeGuard)
			}
			r.Post("/inspections", h.ScheduleInspection)
			r.Patch("/inspections/{id}/assignment", h.ReassignInspection)
			r.Patch("/inspections/{id}/status", h.UpdateInspectionStatus)
		})
	})
}

func respond(w http.ResponseWriter, r *http.Request, status int, data any, msg string) {
	_ = render.Render(w, r, api.NewResponse(status, data, msg))
}

// respondError maps service errors to status codes. Every record store
// failure is a 500; the payload kind tells them apart.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		invalidRequest   *validator.ErrInvalidRequest
		invalidInput     *service.ErrInvalidInput
		notFound         *service.ErrResourceNotFound
		unavailable      *service.ErrPersonUnavailable
		capacity         *service.ErrCapacityExceeded
		transition       *service.ErrInvalidTransition
		partial          *service.ErrPartialAssignmentFailure
		storeTimeout     *service.ErrStoreTimeout
		storeUnavailable *service.ErrStoreUnavailable
	)

	switch {
	case errors.As(err, &invalidRequest), errors.As(err, &invalidInput):
		respond(w, r, http.StatusBadRequest, nil, err.Error())
	case errors.As(err, &notFound):
		respond(w, r, http.StatusNotFound, nil, err.Error())
	case errors.As(err, &capacity):
		respond(w, r, http.StatusConflict, mappers.CapacityConflictToApi(capacity), err.Error())
	case errors.As(err, &unavailable), errors.As(err, &transition):
		respond(w, r, http.StatusConflict, nil, err.Error())
	case errors.As(err, &partial):
		respond(w, r, http.StatusInternalServerError, mappers.PartialFailureToApi(partial), err.Error())
	case errors.As(err, &storeTimeout):
		logFailure(r, err)
		respond(w, r, http.StatusInternalServerError, api.StoreFailure{Kind: api.StoreFailureTimeout}, "record store timed out")
	case errors.As(err, &storeUnavailable):
		logFailure(r, err)
		respond(w, r, http.StatusInternalServerError, api.StoreFailure{Kind: api.StoreFailureUnavailable}, "record store unavailable")
	default:
		logFailure(r, err)
		respond(w, r, http.StatusInternalServerError, nil, "internal error")
	}
}

func logFailure(r *http.Request, err error) {
	zap.S().Named("handlers").Errorw("request failed", "path", r.URL.Path, "error", err)
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, validator.NewErrInvalidRequest("invalid id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}

func username(r *http.Request) string {
	if user, found := auth.UserFromContext(r.Context()); found {
		return user.Username
	}
	return ""
}

package v1

import (
	"context"
	"net/http"

	api "github.com/propinspect/inspection-planner/api/v1"
	"github.com/propinspect/inspection-planner/internal/handlers/v1/mappers"
	"github.com/propinspect/inspection-planner/internal/service"
	"github.com/propinspect/inspection-planner/internal/store/model"
)

// (GET /api/v1/supervisors/availability/check)
func (h *ServiceHandler) AvailableSupervisors(w http.ResponseWriter, r *http.Request) {
	h.available(w, r, h.availabilitySrv.AvailableSupervisors)
}

// (GET /api/v1/inspectors/availability/check)
func (h *ServiceHandler) AvailableInspectors(w http.ResponseWriter, r *http.Request) {
	h.available(w, r, h.availabilitySrv.AvailableInspectors)
}

func (h *ServiceHandler) available(w http.ResponseWriter, r *http.Request, fn func(context.Context, model.Date) ([]service.Candidate, error)) {
	query := api.DateQuery{Date: r.URL.Query().Get("date")}
	if err := h.validator.Struct(query); err != nil {
		respondError(w, r, err)
		return
	}

	date, err := model.ParseDate(query.Date)
	if err != nil {
		respondError(w, r, service.NewErrInvalidInput("%s", err))
		return
	}

	candidates, err := fn(r.Context(), date)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, mappers.CandidateListToApi(candidates), "")
}

package v1

import (
	"net/http"

	api "github.com/propinspect/inspection-planner/api/v1"
	"github.com/propinspect/inspection-planner/internal/handlers/v1/mappers"
	"github.com/propinspect/inspection-planner/internal/service"
	"github.com/propinspect/inspection-planner/internal/store/model"
)

// (GET /api/v1/supervisors/{id}/workload)
func (h *ServiceHandler) SupervisorWorkload(w http.ResponseWriter, r *http.Request) {
	h.workload(w, r, model.RoleSupervisor)
}

// (GET /api/v1/inspectors/{id}/workload)
func (h *ServiceHandler) InspectorWorkload(w http.ResponseWriter, r *http.Request) {
	h.workload(w, r, model.RoleInspector)
}

func (h *ServiceHandler) workload(w http.ResponseWriter, r *http.Request, role model.Role) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	query := api.OptionalDateQuery{Date: r.URL.Query().Get("date")}
	if err := h.validator.Struct(query); err != nil {
		respondError(w, r, err)
		return
	}

	var date *model.Date
	if query.Date != "" {
		d, err := model.ParseDate(query.Date)
		if err != nil {
			respondError(w, r, service.NewErrInvalidInput("%s", err))
			return
		}
		date = &d
	}

	snapshot, err := h.workloadSrv.Workload(r.Context(), id, date)
	if err != nil {
		respondError(w, r, err)
		return
	}

	// a supervisor id on the inspector route is unknown there
	if snapshot.Role != role {
		respondError(w, r, service.NewErrPersonNotFound(id, role))
		return
	}

	respond(w, r, http.StatusOK, mappers.WorkloadToApi(*snapshot), "")
}

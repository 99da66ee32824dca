package v1

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/render"
	api "github.com/propinspect/inspection-planner/api/v1"
	"github.com/propinspect/inspection-planner/internal/handlers/v1/mappers"
	"github.com/propinspect/inspection-planner/internal/handlers/validator"
	"github.com/propinspect/inspection-planner/internal/service"
	"github.com/propinspect/inspection-planner/internal/store/model"
)

// (POST /api/v1/inspections)
func (h *ServiceHandler) ScheduleInspection(w http.ResponseWriter, r *http.Request) {
	var req api.ScheduleInspectionRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, validator.NewErrInvalidRequest("malformed body: %s", err))
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(w, r, err)
		return
	}

	form, err := mappers.ScheduleFormApi(req, username(r))
	if err != nil {
		respondError(w, r, service.NewErrInvalidInput("%s", err))
		return
	}

	inspection, err := h.assignmentSrv.ScheduleInspection(r.Context(), form)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, mappers.InspectionToApi(*inspection), "inspection scheduled")
}

// (PATCH /api/v1/inspections/{id}/assignment)
func (h *ServiceHandler) ReassignInspection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req api.ReassignInspectionRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, validator.NewErrInvalidRequest("malformed body: %s", err))
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(w, r, err)
		return
	}

	form, err := mappers.ReassignFormApi(req, username(r))
	if err != nil {
		respondError(w, r, service.NewErrInvalidInput("%s", err))
		return
	}

	inspection, err := h.assignmentSrv.Reassign(r.Context(), id, form)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, mappers.InspectionToApi(*inspection), "inspection reassigned")
}

// (PATCH /api/v1/inspections/{id}/status)
func (h *ServiceHandler) UpdateInspectionStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req api.UpdateStatusRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		respondError(w, r, validator.NewErrInvalidRequest("malformed body: %s", err))
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(w, r, err)
		return
	}

	inspection, err := h.assignmentSrv.Transition(r.Context(), id, model.InspectionStatus(req.Status))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, mappers.InspectionToApi(*inspection), "status updated")
}

// (GET /api/v1/inspections/{id})
func (h *ServiceHandler) GetInspection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	inspection, err := h.assignmentSrv.GetInspection(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, mappers.InspectionToApi(*inspection), "")
}

// (GET /api/v1/inspections)
func (h *ServiceHandler) ListInspections(w http.ResponseWriter, r *http.Request) {
	query, err := listQuery(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.validator.Struct(query); err != nil {
		respondError(w, r, err)
		return
	}

	filter, err := mappers.InspectionFilterApi(query)
	if err != nil {
		respondError(w, r, service.NewErrInvalidInput("%s", err))
		return
	}

	inspections, err := h.assignmentSrv.ListInspections(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, mappers.InspectionListToApi(inspections), "")
}

// listQuery reads the list parameters. status may be repeated or comma
// separated.
func listQuery(r *http.Request) (api.ListInspectionsQuery, error) {
	values := r.URL.Query()
	query := api.ListInspectionsQuery{
		PersonID:     values.Get("person_id"),
		SupervisorID: values.Get("supervisor_id"),
		InspectorID:  values.Get("inspector_id"),
		Date:         values.Get("date"),
	}

	if raw := values.Get("property_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 0)
		if err != nil || id == 0 {
			return query, validator.NewErrInvalidRequest("property_id must be a positive integer")
		}
		query.PropertyID = uint(id)
	}

	for _, s := range values["status"] {
		for _, status := range strings.Split(s, ",") {
			if status = strings.TrimSpace(status); status != "" {
				query.Statuses = append(query.Statuses, status)
			}
		}
	}

	for key, dst := range map[string]*int{"limit": &query.Limit, "offset": &query.Offset} {
		raw := values.Get(key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return query, validator.NewErrInvalidRequest("%s must be an integer", key)
		}
		*dst = n
	}

	return query, nil
}

package v1_test

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	api "github.com/propinspect/inspection-planner/api/v1"
	"github.com/propinspect/inspection-planner/internal/auth"
)

var _ = Describe("inspection handlers", Ordered, func() {
	var (
		ts         *testServer
		supervisor uuid.UUID
		inspector  uuid.UUID
	)

	request := func() api.ScheduleInspectionRequest {
		insp := inspector.String()
		return api.ScheduleInspectionRequest{
			PropertyID:     7,
			ScheduledDate:  "2024-05-01",
			InspectionType: "routine",
			SupervisorID:   supervisor.String(),
			InspectorID:    &insp,
		}
	}

	schedule := func() api.Inspection {
		code, env := ts.do(http.MethodPost, "/api/v1/inspections", request())
		Expect(code).To(Equal(http.StatusCreated))
		var inspection api.Inspection
		Expect(json.Unmarshal(env.Data, &inspection)).To(Succeed())
		return inspection
	}

	BeforeAll(func() {
		ts = newTestServer()
	})

	AfterAll(func() {
		ts.s.Close()
	})

	BeforeEach(func() {
		ts.insertProperty(7)
		supervisor = ts.insertPerson("supervisor", "Sam", "available")
		inspector = ts.insertPerson("inspector", "Ivy", "available")
	})

	AfterEach(func() {
		ts.cleanup()
	})

	Context("schedule", func() {
		It("successfully schedules an inspection", func() {
			code, env := ts.do(http.MethodPost, "/api/v1/inspections", request())
			Expect(code).To(Equal(http.StatusCreated))
			Expect(env.Success).To(BeTrue())

			var inspection api.Inspection
			Expect(json.Unmarshal(env.Data, &inspection)).To(Succeed())
			Expect(inspection.Status).To(Equal("pending"))
			Expect(inspection.ScheduledDate).To(Equal("2024-05-01"))
			Expect(*inspection.SupervisorID).To(Equal(supervisor))
			Expect(inspection.CreatedBy).To(Equal("tester"))
			Expect(inspection.Assignments).To(HaveLen(2))
		})

		It("fails with 409 and names the party when the supervisor is full", func() {
			for i := 0; i < 3; i++ {
				ts.insertInspection(supervisor, "2024-05-01", "pending")
			}

			code, env := ts.do(http.MethodPost, "/api/v1/inspections", request())
			Expect(code).To(Equal(http.StatusConflict))
			Expect(env.Success).To(BeFalse())

			var conflict api.CapacityConflict
			Expect(json.Unmarshal(env.Data, &conflict)).To(Succeed())
			Expect(conflict.Party).To(Equal("supervisor"))
			Expect(conflict.Active).To(BeNumerically("==", 3))
		})

		It("fails with 409 for an unavailable inspector", func() {
			away := ts.insertPerson("inspector", "Away", "unavailable")
			req := request()
			id := away.String()
			req.InspectorID = &id

			code, _ := ts.do(http.MethodPost, "/api/v1/inspections", req)
			Expect(code).To(Equal(http.StatusConflict))
		})

		It("fails with 400 for an unknown property or person", func() {
			req := request()
			req.PropertyID = 99

			code, env := ts.do(http.MethodPost, "/api/v1/inspections", req)
			Expect(code).To(Equal(http.StatusBadRequest))
			Expect(env.Msg).To(ContainSubstring("unknown property"))

			req = request()
			req.SupervisorID = uuid.NewString()

			code, _ = ts.do(http.MethodPost, "/api/v1/inspections", req)
			Expect(code).To(Equal(http.StatusBadRequest))
		})

		DescribeTable("fails with 400 on invalid requests",
			func(mutate func(*api.ScheduleInspectionRequest)) {
				req := request()
				mutate(&req)

				code, env := ts.do(http.MethodPost, "/api/v1/inspections", req)
				Expect(code).To(Equal(http.StatusBadRequest))
				Expect(env.Success).To(BeFalse())
				Expect(env.Msg).ToNot(BeEmpty())
			},
			Entry("malformed date", func(r *api.ScheduleInspectionRequest) { r.ScheduledDate = "May 1st" }),
			Entry("past date", func(r *api.ScheduleInspectionRequest) { r.ScheduledDate = "2024-04-01" }),
			Entry("unknown type", func(r *api.ScheduleInspectionRequest) { r.InspectionType = "cosmetic" }),
			Entry("missing supervisor", func(r *api.ScheduleInspectionRequest) { r.SupervisorID = "" }),
			Entry("supervisor given as inspector", func(r *api.ScheduleInspectionRequest) {
				id := supervisor.String()
				r.InspectorID = &id
			}),
		)

		It("fails with 400 on a malformed body", func() {
			code, _ := ts.do(http.MethodPost, "/api/v1/inspections", "not an object")
			Expect(code).To(Equal(http.StatusBadRequest))
		})

		It("is forbidden to viewers", func() {
			code, _ := ts.do(http.MethodPost, "/api/v1/inspections", request(), auth.RoleViewer)
			Expect(code).To(Equal(http.StatusForbidden))
		})
	})

	Context("status and reassignment", func() {
		It("moves an inspection through its lifecycle", func() {
			inspection := schedule()
			path := fmt.Sprintf("/api/v1/inspections/%s/status", inspection.ID)

			code, _ := ts.do(http.MethodPatch, path, api.UpdateStatusRequest{Status: "in-progress"})
			Expect(code).To(Equal(http.StatusOK))

			code, env := ts.do(http.MethodPatch, path, api.UpdateStatusRequest{Status: "completed"})
			Expect(code).To(Equal(http.StatusOK))
			var updated api.Inspection
			Expect(json.Unmarshal(env.Data, &updated)).To(Succeed())
			Expect(updated.Status).To(Equal("completed"))
			Expect(updated.StatusChangedAt).ToNot(BeNil())

			code, _ = ts.do(http.MethodPatch, path, api.UpdateStatusRequest{Status: "pending"})
			Expect(code).To(Equal(http.StatusConflict))
		})

		It("fails with 400 on an unknown status", func() {
			inspection := schedule()
			code, _ := ts.do(http.MethodPatch, fmt.Sprintf("/api/v1/inspections/%s/status", inspection.ID), api.UpdateStatusRequest{Status: "archived"})
			Expect(code).To(Equal(http.StatusBadRequest))
		})

		It("reassigns the inspector", func() {
			inspection := schedule()
			other := ts.insertPerson("inspector", "Otto", "available").String()

			code, env := ts.do(http.MethodPatch, fmt.Sprintf("/api/v1/inspections/%s/assignment", inspection.ID), api.ReassignInspectionRequest{InspectorID: &other})
			Expect(code).To(Equal(http.StatusOK))

			var updated api.Inspection
			Expect(json.Unmarshal(env.Data, &updated)).To(Succeed())
			Expect(updated.InspectorID.String()).To(Equal(other))
			Expect(updated.Assignments).To(HaveLen(3))
		})

		It("refuses to reassign a cancelled inspection", func() {
			inspection := schedule()
			code, _ := ts.do(http.MethodPatch, fmt.Sprintf("/api/v1/inspections/%s/status", inspection.ID), api.UpdateStatusRequest{Status: "cancelled"})
			Expect(code).To(Equal(http.StatusOK))

			other := ts.insertPerson("supervisor", "Other", "available").String()
			code, _ = ts.do(http.MethodPatch, fmt.Sprintf("/api/v1/inspections/%s/assignment", inspection.ID), api.ReassignInspectionRequest{SupervisorID: &other})
			Expect(code).To(Equal(http.StatusConflict))
		})

		It("fails with 404 on an unknown inspection", func() {
			other := ts.insertPerson("supervisor", "Other", "available").String()
			code, _ := ts.do(http.MethodPatch, fmt.Sprintf("/api/v1/inspections/%s/assignment", uuid.New()), api.ReassignInspectionRequest{SupervisorID: &other})
			Expect(code).To(Equal(http.StatusNotFound))
		})

		It("fails with 400 on an empty reassignment", func() {
			inspection := schedule()
			code, _ := ts.do(http.MethodPatch, fmt.Sprintf("/api/v1/inspections/%s/assignment", inspection.ID), api.ReassignInspectionRequest{})
			Expect(code).To(Equal(http.StatusBadRequest))
		})
	})

	Context("read", func() {
		It("gets an inspection", func() {
			inspection := schedule()

			code, env := ts.do(http.MethodGet, fmt.Sprintf("/api/v1/inspections/%s", inspection.ID), nil, auth.RoleViewer)
			Expect(code).To(Equal(http.StatusOK))
			var got api.Inspection
			Expect(json.Unmarshal(env.Data, &got)).To(Succeed())
			Expect(got.ID).To(Equal(inspection.ID))
		})

		It("fails with 404 and 400 on bad ids", func() {
			code, env := ts.do(http.MethodGet, fmt.Sprintf("/api/v1/inspections/%s", uuid.New()), nil)
			Expect(code).To(Equal(http.StatusNotFound))
			Expect(string(env.Data)).To(Equal("null"))

			code, _ = ts.do(http.MethodGet, "/api/v1/inspections/not-a-uuid", nil)
			Expect(code).To(Equal(http.StatusBadRequest))
		})

		It("lists inspections with filters", func() {
			schedule()
			ts.insertInspection(supervisor, "2024-05-02", "completed")

			code, env := ts.do(http.MethodGet, fmt.Sprintf("/api/v1/inspections?person_id=%s", supervisor), nil)
			Expect(code).To(Equal(http.StatusOK))
			var list []api.Inspection
			Expect(json.Unmarshal(env.Data, &list)).To(Succeed())
			Expect(list).To(HaveLen(2))

			code, env = ts.do(http.MethodGet, "/api/v1/inspections?status=pending,in-progress", nil)
			Expect(code).To(Equal(http.StatusOK))
			Expect(json.Unmarshal(env.Data, &list)).To(Succeed())
			Expect(list).To(HaveLen(1))

			code, env = ts.do(http.MethodGet, "/api/v1/inspections?date=2024-06-01", nil)
			Expect(code).To(Equal(http.StatusOK))
			Expect(string(env.Data)).To(Equal("[]"))

			code, _ = ts.do(http.MethodGet, "/api/v1/inspections?status=unknown", nil)
			Expect(code).To(Equal(http.StatusBadRequest))

			code, _ = ts.do(http.MethodGet, "/api/v1/inspections?limit=ten", nil)
			Expect(code).To(Equal(http.StatusBadRequest))
		})

		It("lists inspections by role and property", func() {
			schedule()
			ts.insertInspection(supervisor, "2024-05-02", "completed")

			var list []api.Inspection
			code, env := ts.do(http.MethodGet, fmt.Sprintf("/api/v1/inspections?inspector_id=%s", inspector), nil)
			Expect(code).To(Equal(http.StatusOK))
			Expect(json.Unmarshal(env.Data, &list)).To(Succeed())
			Expect(list).To(HaveLen(1))

			code, env = ts.do(http.MethodGet, fmt.Sprintf("/api/v1/inspections?supervisor_id=%s&property_id=7", supervisor), nil)
			Expect(code).To(Equal(http.StatusOK))
			Expect(json.Unmarshal(env.Data, &list)).To(Succeed())
			Expect(list).To(HaveLen(2))

			code, env = ts.do(http.MethodGet, "/api/v1/inspections?property_id=8", nil)
			Expect(code).To(Equal(http.StatusOK))
			Expect(string(env.Data)).To(Equal("[]"))

			code, _ = ts.do(http.MethodGet, "/api/v1/inspections?property_id=tower", nil)
			Expect(code).To(Equal(http.StatusBadRequest))

			code, _ = ts.do(http.MethodGet, "/api/v1/inspections?inspector_id=nobody", nil)
			Expect(code).To(Equal(http.StatusBadRequest))
		})
	})
})

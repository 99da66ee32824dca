package auth_test

import (
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/propinspect/inspection-planner/internal/auth"
)

var _ = Describe("role checks", func() {
	serve := func(user *auth.User, allowed ...auth.Role) int {
		var h http.Handler = auth.RequireRole(allowed...)(&handler{})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/inspections", nil)
		if user != nil {
			req = req.WithContext(auth.NewUserContext(req.Context(), *user))
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	DescribeTable("write access",
		func(role auth.Role, expected int) {
			Expect(serve(&auth.User{Username: "someone", Role: role}, auth.RoleAdmin, auth.RoleSupervisor)).To(Equal(expected))
		},
		Entry("admin", auth.RoleAdmin, http.StatusOK),
		Entry("supervisor", auth.RoleSupervisor, http.StatusOK),
		Entry("inspector", auth.RoleInspector, http.StatusForbidden),
		Entry("viewer", auth.RoleViewer, http.StatusForbidden),
	)

	It("requires a user", func() {
		Expect(serve(nil, auth.RoleAdmin)).To(Equal(http.StatusUnauthorized))
	})

	It("lets the none authenticator through as admin", func() {
		none, err := auth.NewNoneAuthenticator()
		Expect(err).To(BeNil())

		h := none.Authenticator(auth.RequireRole(auth.RoleAdmin, auth.RoleSupervisor)(&handler{}))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
		Expect(rr.Code).To(Equal(http.StatusOK))
	})
})

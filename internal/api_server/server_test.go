package apiserver_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/propinspect/inspection-planner/internal/api_server"
	"github.com/propinspect/inspection-planner/internal/auth"
	"github.com/propinspect/inspection-planner/internal/config"
	"github.com/propinspect/inspection-planner/internal/service"
	"github.com/propinspect/inspection-planner/internal/store"
)

var _ = Describe("api server", Ordered, func() {
	var (
		s   store.Store
		cfg *config.Config
	)

	clock := service.WithClock(func() time.Time { return time.Date(2024, 4, 30, 9, 0, 0, 0, time.UTC) })

	BeforeAll(func() {
		cfg = config.NewDefault()
		db, err := store.InitDB(cfg)
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		Expect(s.InitialMigration(context.TODO())).To(BeNil())
		Expect(s.Seed()).To(BeNil())
	})

	AfterAll(func() {
		s.Close()
	})

	serve := func(h http.Handler, method, path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	It("serves health without authentication", func() {
		h, err := apiserver.New(withAuth(cfg, config.Auth{AuthenticationType: auth.LocalAuthentication, JwtSecret: "s3cr3t"}), s, nil, clock).Handler()
		Expect(err).To(BeNil())

		rr := serve(h, http.MethodGet, "/health", "")
		Expect(rr.Code).To(Equal(http.StatusOK))
		Expect(rr.Header().Get("X-Request-Id")).ToNot(BeEmpty())
	})

	It("answers the seeded roster with the none authenticator", func() {
		h, err := apiserver.New(cfg, s, nil, clock).Handler()
		Expect(err).To(BeNil())

		rr := serve(h, http.MethodGet, "/api/v1/supervisors/availability/check?date=2024-05-01", "")
		Expect(rr.Code).To(Equal(http.StatusOK))
		Expect(rr.Body.String()).To(ContainSubstring("Alice Moreau"))
		Expect(rr.Body.String()).To(ContainSubstring("Bruno Keller"))

		rr = serve(h, http.MethodGet, "/api/v1/inspectors/availability/check?date=2024-05-01", "")
		Expect(rr.Code).To(Equal(http.StatusOK))
		// the unavailable inspector is never listed
		Expect(rr.Body.String()).ToNot(ContainSubstring("Eun-ji Park"))
	})

	It("requires a bearer token with local authentication", func() {
		h, err := apiserver.New(withAuth(cfg, config.Auth{AuthenticationType: auth.LocalAuthentication, JwtSecret: "s3cr3t"}), s, nil, clock).Handler()
		Expect(err).To(BeNil())

		rr := serve(h, http.MethodGet, "/api/v1/inspections", "")
		Expect(rr.Code).To(Equal(http.StatusUnauthorized))

		authenticator, err := auth.NewLocalAuthenticator([]byte("s3cr3t"))
		Expect(err).To(BeNil())
		token, err := authenticator.GenerateToken(auth.User{ID: "7", Username: "ivy", Role: auth.RoleInspector}, time.Hour)
		Expect(err).To(BeNil())

		rr = serve(h, http.MethodGet, "/api/v1/inspections", token)
		Expect(rr.Code).To(Equal(http.StatusOK))

		rr = serve(h, http.MethodPost, "/api/v1/inspections", token)
		Expect(rr.Code).To(Equal(http.StatusForbidden))
	})

	It("fails to build without a secret for local authentication", func() {
		_, err := apiserver.New(withAuth(cfg, config.Auth{AuthenticationType: auth.LocalAuthentication}), s, nil, clock).Handler()
		Expect(err).ToNot(BeNil())
	})
})

// withAuth copies cfg with another authentication setup.
func withAuth(cfg *config.Config, a config.Auth) *config.Config {
	svc := *cfg.Service
	svc.Auth = a
	local := *cfg
	local.Service = &svc
	return &local
}

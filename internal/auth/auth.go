package auth

import (
	"fmt"
	"net/http"

	"github.com/propinspect/inspection-planner/internal/config"
	"go.uber.org/zap"
)

type Authenticator interface {
	Authenticator(next http.Handler) http.Handler
}

const (
	LocalAuthentication string = "local"
	NoneAuthentication  string = "none"
)

func NewAuthenticator(authConfig config.Auth) (Authenticator, error) {
	zap.S().Named("auth").Infof("authentication: '%s'", authConfig.AuthenticationType)

	switch authConfig.AuthenticationType {
	case LocalAuthentication:
		if authConfig.JwtSecret == "" {
			return nil, fmt.Errorf("local authentication requires INSPECTION_PLANNER_JWT_SECRET")
		}
		return NewLocalAuthenticator([]byte(authConfig.JwtSecret))
	default:
		return NewNoneAuthenticator()
	}
}

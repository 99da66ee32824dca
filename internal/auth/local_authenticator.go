package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	tokenIssuer            = "inspection-planner"
	defaultTokenExpiration = 12 * time.Hour
)

type Claims struct {
	Username string `json:"preferred_username"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}

// LocalAuthenticator validates HS256 bearer tokens signed with a shared
// secret.
type LocalAuthenticator struct {
	secret []byte
}

func NewLocalAuthenticator(secret []byte) (*LocalAuthenticator, error) {
	if len(secret) == 0 {
		return nil, errors.New("empty signing secret")
	}
	return &LocalAuthenticator{secret: secret}, nil
}

// GenerateToken signs a token for the user, valid for ttl. A zero ttl uses
// the default expiration.
func (la *LocalAuthenticator) GenerateToken(user User, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = defaultTokenExpiration
	}
	now := time.Now()
	claims := Claims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   user.ID,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(la.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (la *LocalAuthenticator) Authenticate(token string) (User, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(tokenIssuer),
	)

	claims := &Claims{}
	t, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return la.secret, nil
	})
	if err != nil {
		zap.S().Named("auth").Debugw("failed to parse or the token is invalid", "error", err)
		return User{}, fmt.Errorf("failed to authenticate token: %w", err)
	}

	if !t.Valid {
		return User{}, errors.New("failed to parse or validate token")
	}

	if !claims.Role.IsValid() {
		return User{}, fmt.Errorf("unknown role %q", claims.Role)
	}

	return User{
		ID:       claims.Subject,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}

func (la *LocalAuthenticator) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accessToken, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !found || accessToken == "" {
			http.Error(w, "No token provided", http.StatusUnauthorized)
			return
		}

		user, err := la.Authenticate(accessToken)
		if err != nil {
			http.Error(w, "authentication failed", http.StatusUnauthorized)
			return
		}

		ctx := NewUserContext(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

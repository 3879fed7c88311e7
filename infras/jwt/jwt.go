package jwt

//go:generate go run go.uber.org/mock/mockgen -source=./jwt.go -destination=./mocks/jwt_mock.go -package=mocks

import (
	"errors"
	"fmt"
	"parking/config"
	"parking/shared/constant"
	"parking/shared/timezone"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaim  = errors.New("invalid token claim")
	ErrMissingHeader = errors.New("authorization header is required")
	ErrInvalidScheme = errors.New("authorization scheme must be Bearer")
)

const (
	bearerScheme = "bearer"
	clockLeeway  = 5 * time.Second
)

var roles = []string{constant.RoleUser, constant.RoleStaff, constant.RoleAdmin}

// Claims carries the identity the booking core trusts: who the driver is and which role they act in.
// Tokens are issued by the identity service and share its access secret.
type Claims struct {
	UserID  string `json:"user_id"`
	Role    string `json:"role"`
	TokenID string `json:"token_id"`
	jwt.RegisteredClaims
}

func (c *Claims) validate() error {
	if c.UserID == "" || !slices.Contains(roles, c.Role) {
		return ErrInvalidClaim
	}

	return nil
}

type JWT interface {
	GenerateAccessToken(userID, role string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type Service struct {
	secret []byte
	issuer string
	ttl    time.Duration
	parser *jwt.Parser
}

func New(cfg *config.Config) JWT {
	return &Service{
		secret: []byte(cfg.JWT.AccessSecret),
		issuer: cfg.App.Name,
		ttl:    time.Duration(cfg.JWT.AccessExpireMin) * time.Minute,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(clockLeeway),
			jwt.WithTimeFunc(timezone.Now),
		),
	}
}

// GenerateAccessToken signs a short-lived access token. The booking service itself only validates
// tokens; issuing is kept for local tooling and tests.
func (s *Service) GenerateAccessToken(userID, role string) (string, error) {
	now := timezone.Now()
	tokenID := uuid.NewString()

	claims := Claims{
		UserID:  userID,
		Role:    role,
		TokenID: tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Issuer:    s.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// ValidateToken accepts only HS256 tokens with an expiry, a user and a known role.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	var claims Claims

	_, err := s.parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if err := claims.validate(); err != nil {
		return nil, err
	}

	return &claims, nil
}

// ExtractTokenFromHeader returns the credentials of a Bearer authorization header. The scheme is
// matched case-insensitively.
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingHeader
	}

	scheme, token, ok := strings.Cut(strings.TrimSpace(authHeader), " ")
	if !ok || !strings.EqualFold(scheme, bearerScheme) {
		return "", ErrInvalidScheme
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidScheme
	}

	return token, nil
}

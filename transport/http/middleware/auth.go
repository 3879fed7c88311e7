package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"parking/config"
	"parking/infras/jwt"
	"parking/infras/otel"
	"parking/permissions"
	"parking/shared/constant"
	"parking/shared/failure"
	"parking/shared/logger"
	"parking/transport/http/response"

	"github.com/go-chi/chi/v5"
)

// internalCallKey marks a request authenticated by API key. Such callers skip token checks.
type internalCallKey struct{}

// Auth authenticates callers.
type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

// Role authorizes authenticated callers against the permission table.
type Role interface {
	RBAC(http.Handler) http.Handler
}

type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	permission *permissions.PermissionData
	cfg        *config.Config
}

func NewAuthRoleMiddleware(jwtService jwt.JWT, otel otel.Otel, permissions *permissions.PermissionData, cfg *config.Config) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		otel:       otel,
		permission: permissions,
		cfg:        cfg,
	}
}

func isInternalCall(ctx context.Context) bool {
	internal, _ := ctx.Value(internalCallKey{}).(bool)

	return internal
}

// routePattern resolves the chi pattern the request will be dispatched to, which is how the
// permission table is keyed.
func routePattern(request *http.Request) string {
	rctx := chi.RouteContext(request.Context())
	if rctx == nil {
		return request.URL.Path
	}

	return rctx.Routes.Find(chi.NewRouteContext(), request.Method, request.URL.Path)
}

func (m *authRoleImpl) lookup(request *http.Request) (permissions.Permission, string) {
	path := routePattern(request)
	if m.permission == nil {
		return permissions.Permission{}, path
	}

	return m.permission.FindPermissions(path, request.Method), path
}

func tokenFailure(err error) error {
	switch {
	case errors.Is(err, jwt.ErrExpiredToken):
		return failure.Unauthorized("Token has expired") //nolint:wrapcheck
	case errors.Is(err, jwt.ErrInvalidClaim):
		return failure.Unauthorized("Invalid token claims") //nolint:wrapcheck
	default:
		return failure.Unauthorized("Invalid token") //nolint:wrapcheck
	}
}

// Auth requires a valid bearer token unless the caller is internal or the route is marked skip.
// The token's user, role and id are placed on the request context.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "auth.middleware")
		defer scope.End()

		permission, path := m.lookup(request)

		if isInternalCall(ctx) || permission.Skip {
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       path,
			"http.method":     request.Method,
		})

		authHeader := request.Header.Get(constant.RequestHeaderAuthorization)
		if authHeader == "" {
			err := failure.Unauthorized("Missing authorization header")
			scope.TraceError(err)
			response.WithError(writer, err)

			return
		}

		tokenString, err := jwt.ExtractTokenFromHeader(authHeader)
		if err != nil {
			err := failure.Unauthorized("Invalid authorization header format")
			scope.TraceError(err)
			response.WithError(writer, err)

			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			logger.FromContext(ctx).Debug().Err(err).Str("path", path).Msg("rejected access token")

			err := tokenFailure(err)
			scope.TraceError(err)
			response.WithError(writer, err)

			return
		}

		ctx = context.WithValue(ctx, constant.ContextKeyUserID, claims.UserID)
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, claims.Role)
		ctx = context.WithValue(ctx, constant.ContextKeyTokenID, claims.TokenID)

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// RBAC admits the caller when the route's role list contains their role. A missing permission
// table denies everything.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "rbac.middleware")
		defer scope.End()

		if isInternalCall(ctx) {
			next.ServeHTTP(writer, request)

			return
		}

		if m.permission == nil {
			scope.TraceError(failure.ForbiddenError)
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		permission, _ := m.lookup(request)

		if m.permission.Skip || permission.Skip {
			next.ServeHTTP(writer, request)

			return
		}

		userRole, _ := ctx.Value(constant.ContextKeyUserRole).(string)

		if !permission.Allows(userRole) {
			scope.SetAttributes(map[string]any{
				"user_role":     userRole,
				"allowed_roles": permission.Permissions,
				"reason":        "role_not_allowed",
			})
			scope.TraceError(failure.ForbiddenError)
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		next.ServeHTTP(writer, request)
	})
}

// APIKey lets operator tooling call the API with the shared key instead of a token. A request
// without the header continues as a client call; a wrong key is refused outright.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "api_key.middleware")
		defer scope.End()

		apiKey := request.Header.Get(constant.RequestHeaderAPIKey)
		if apiKey == "" {
			scope.SetAttribute("http.source", "client")
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttribute("http.source", "internal")

		expected := m.cfg.App.APIKey
		if expected == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(expected)) != 1 {
			scope.TraceError(failure.ForbiddenError)
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		next.ServeHTTP(writer, request.WithContext(context.WithValue(ctx, internalCallKey{}, true)))
	})
}

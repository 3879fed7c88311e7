package constant

import (
	"time"
)

type contextKey string

// Request-scoped values set by the auth middleware.
const (
	ContextKeyUserID   contextKey = "user_id"
	ContextKeyUserRole contextKey = "user_role"
	ContextKeyTokenID  contextKey = "token_id"
)

// Roles carried in access tokens. Drivers book as users; attendants act as staff.
const (
	RoleUser  = "user"
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

// ActorSystem is recorded as modifier when no user drove the change.
const ActorSystem = "system"

const DateFormat = time.RFC3339

const (
	RequestParamID      = "id"
	RequestParamIDs     = "ids"
	RequestParamPage    = "page"
	RequestParamLimit   = "limit"
	RequestParamSortBy  = "sort_by"
	RequestParamSortDir = "sort_dir"
)

const (
	DefaultValuePage  = 1
	DefaultValueLimit = 10
	MaxValueLimit     = 100
)

// Audit columns shared by every table.
const (
	FieldModifiedAt = "modified_at"
	FieldModifiedBy = "modified_by"
)

// Postgres SQLSTATE codes the repositories translate into domain failures.
const (
	PqErrorCodeUniqueViolation  = "23505"
	PqErrorCodeLockNotAvailable = "55P03"
)

const (
	OtelHandlerScopeName    = "handler"
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelEventScopeName      = "event"
	OtelWorkerScopeName     = "worker"

	OtelQueryAttributeKey = "query"
)

const (
	RequestHeaderAuthorization      = "Authorization"
	RequestHeaderAPIKey             = "X-API-Key"
	RequestHeaderUserAgent          = "User-Agent"
	RequestHeaderContentType        = "Content-Type"
	RequestHeaderForwardedFor       = "X-Forwarded-For"
	RequestHeaderRealIP             = "X-Real-IP"
	RequestHeaderRateLimit          = "X-RateLimit-Limit"
	RequestHeaderRateLimitRemaining = "X-RateLimit-Remaining"
	RequestHeaderRateLimitWindow    = "X-RateLimit-Window"
)

const ContentTypeJSON = "application/json"

const (
	ResponseErrorPrepareShutdown      = "SERVER PREPARING TO SHUT DOWN"
	ResponseErrorUnhealthy            = "SERVER UNHEALTHY"
	ResponseErrorRequestLimitExceeded = "REQUEST LIMIT EXCEEDED"
)

const (
	ServerEnvDevelopment = "development"
	ServerEnvProduction  = "production"
)

const (
	Asterix = "*"
	Empty   = ""
	Comma   = ","
)

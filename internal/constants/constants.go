package constants

import "time"

// Gin context keys
const (
	ContextKeyAccount   = "account"
	ContextKeyAccountID = "account_id"
	ContextKeyTask      = "task"
	ContextKeyRequestID = "request_id"
)

// Authentication
const (
	MinPasswordLength = 6
	TokenTTL          = time.Hour
	TokenIssuer       = "todo-api"
	BearerPrefix      = "Bearer "
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
	MaxPage         = 1_000_000
)

const MaxAIGeneratedTasks = 10

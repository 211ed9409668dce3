package constants

import "time"

// Context and session keys
const (
	ContextKeyUserID  = "user_id"
	ContextKeyGroup   = "group"
	ContextKeyMember  = "group_member"
	ContextKeyTask    = "task"
	SessionCookieName = "task_session"
	SessionTokenKey   = "session_token"
)

// Validation limits
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt ignores bytes beyond 72
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// DefaultSessionTTL is used when SESSION_TTL is not configured.
const DefaultSessionTTL = 7 * 24 * time.Hour

package constants

import "time"

// Context keys
const (
	ContextKeyUserID  = "user_id"
	ContextKeyToken   = "token_hash"
	ContextKeyProject = "project"
	ContextKeyMember  = "organization_member"
)

// Validation limits
const (
	MinPasswordLength  = 8
	MaxTitleLength     = 255
	MaxGroupNameLength = 100
	MaxNameLength      = 255
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Task tree limits
const (
	// MaxTaskDepth is the deepest a task may sit below its root (root = 0).
	MaxTaskDepth = 2
)

// Project detail
const (
	MaxProjectActivities = 50
	DefaultTokenTTL      = 7 * 24 * time.Hour
)

package authz

import (
	"strconv"
	"strings"

	"github.com/kars-hq/kars/pkg/workflow"
)

const (
	rolePrefix      = "role"
	userPrefix      = "user"
	separator       = ":"
	objectSeparator = "."
	actionWildcard  = "*"
)

// Request encapsulates the parameters of a single policy check.
type Request struct {
	Subject string
	Object  string
	Action  string
}

// NewRequest builds a normalized Request.
func NewRequest(subject, object, action string) Request {
	return Request{
		Subject: subject,
		Object:  object,
		Action:  NormalizeAction(action),
	}
}

// SubjectForRole returns the canonical identifier for a role-based subject.
func SubjectForRole(role workflow.Role) string {
	slug := strings.ToLower(strings.TrimSpace(string(role)))
	if slug == "" {
		slug = "anonymous"
	}
	return rolePrefix + separator + slug
}

// SubjectForUser returns the canonical identifier for an individual user.
func SubjectForUser(userID uint) string {
	return userPrefix + separator + strconv.FormatUint(uint64(userID), 10)
}

// ObjectName returns the canonical module.resource string, lowercased.
func ObjectName(module, resource string) string {
	module = strings.ToLower(strings.TrimSpace(module))
	resource = strings.ToLower(strings.TrimSpace(resource))
	if module == "" {
		module = "global"
	}
	if resource == "" {
		resource = "resource"
	}
	return module + objectSeparator + resource
}

// NormalizeAction returns a normalized action string.
func NormalizeAction(action string) string {
	action = strings.ToLower(strings.TrimSpace(action))
	if action == "" {
		return actionWildcard
	}
	return action
}

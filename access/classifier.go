package access

import (
	"strings"

	"github.com/pulseplan/backend/models"
)

// Kind is the access category of a route
type Kind int

const (
	// KindPublic routes are open when signed out; signed-in users are
	// routed away from them to their role home.
	KindPublic Kind = iota

	// KindNeutral routes bypass routing entirely (diagnostics, sign-out,
	// health probes). Matched exactly, never by prefix.
	KindNeutral

	// KindRoleScoped routes belong to one role's section
	KindRoleScoped

	// KindProtected routes require a session but no specific role
	KindProtected
)

// String returns the kind name for logging
func (k Kind) String() string {
	switch k {
	case KindPublic:
		return "public"
	case KindNeutral:
		return "neutral"
	case KindRoleScoped:
		return "role_scoped"
	case KindProtected:
		return "protected"
	}
	return "unknown"
}

// Classification is the access category of a path. Role is set only for
// role-scoped paths.
type Classification struct {
	Kind Kind
	Role models.UserRole
}

var publicPaths = map[string]bool{
	"/":            true,
	"/auth/login":  true,
	"/auth/signup": true,
}

var neutralPaths = map[string]bool{
	"/debug":           true,
	"/unauthorized":    true,
	"/agency-test":     true,
	"/admin/fix-users": true,
	"/healthz":         true,
	"/readyz":          true,
	"/auth/logout":     true,
}

// Classify returns the access category of a request path. Classification
// depends only on the path, never on the session.
func Classify(path string) Classification {
	path = normalize(path)

	if neutralPaths[path] {
		return Classification{Kind: KindNeutral}
	}
	if publicPaths[path] {
		return Classification{Kind: KindPublic}
	}

	if role, ok := models.ParseRole(firstSegment(path)); ok {
		return Classification{Kind: KindRoleScoped, Role: role}
	}

	return Classification{Kind: KindProtected}
}

// normalize collapses trailing slashes so /consultant/ and /consultant
// classify identically
func normalize(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for len(path) > 1 && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

func firstSegment(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		return trimmed[:i]
	}
	return trimmed
}

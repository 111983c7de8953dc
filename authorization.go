package main

import (
	"fmt"
	"net/http"

	"github.com/quotedb/qdb/model"
)

const loginPath = "/user/login"

type DenyReason int

const (
	DenyNone DenyReason = iota
	DenyNotLoggedIn
	DenyInsufficientPermissions
)

func (d DenyReason) String() string {
	switch d {
	case DenyNotLoggedIn:
		return "not logged in"
	case DenyInsufficientPermissions:
		return "insufficient permissions"
	}
	return "none"
}

// Decision is the outcome of an authorization check. It is a plain
// value: translating a denial into a redirect is the route layer's
// job, never Authorize's.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}

// Authorize decides whether the session may perform an operation
// requiring the given roles. The caller must hold every requested
// role (conjunction). An empty role list always denies, and roles
// outside the enumeration can never be held, so both fail closed.
//
// If roles contains model.RoleLoggedIn the only requirement is an
// authenticated session; any real roles in the same list are NOT
// checked. Longstanding behavior, kept for compatibility — don't mix
// RoleLoggedIn with real roles in new route tables.
func Authorize(s UserSession, roles ...model.Role) Decision {
	for _, r := range roles {
		if r == model.RoleLoggedIn {
			if s.LoggedIn() {
				return allow()
			}
			return deny(DenyNotLoggedIn)
		}
	}

	if !s.LoggedIn() {
		return deny(DenyNotLoggedIn)
	}

	allowed := len(roles) > 0
	for _, r := range roles {
		allowed = allowed && s.Flags.Has(r)
	}

	if !allowed {
		return deny(DenyInsufficientPermissions)
	}
	return allow()
}

// RequireRoles builds an alice-compatible middleware enforcing
// Authorize over the request's session. Denials redirect to the login
// page — never an error page, so a denied client can't tell a
// protected resource from a missing one.
//
// Route tables are static: a real role outside the enumeration is a
// programming defect and panics at construction time.
func RequireRoles(broker *SessionBroker, roles ...model.Role) func(http.Handler) http.Handler {
	for _, r := range roles {
		if r == model.RoleLoggedIn {
			continue
		}
		if _, err := model.FlagForRole(r); err != nil {
			panic(fmt.Sprintf("auth: route requires unknown role %d", r))
		}
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := broker.Get(r)
			if decision := Authorize(sessionUser(session), roles...); !decision.Allowed {
				w.Header().Set("Location", loginPath)
				w.WriteHeader(http.StatusSeeOther)
				return
			}
			h.ServeHTTP(w, r)
		})
	}
}

package main

import (
	"github.com/quotedb/qdb/model"
)

const (
	sessionKeyUsername = "username"
	sessionKeyUserID   = "user_id"
	sessionKeyFlags    = "flags"
)

// UserSession is the point-in-time identity snapshot taken at login.
// Its flags are copied verbatim from the stored user at that instant;
// later changes to the stored flags do not propagate into live
// sessions. The zero value is an anonymous session.
type UserSession struct {
	Username string
	UserID   uint
	Flags    model.Flags
}

func (us UserSession) LoggedIn() bool {
	return us.Username != ""
}

// sessionUser reconstructs the identity snapshot from the underlying
// session store. A missing or partially-typed record reads as
// anonymous.
func sessionUser(s *Session) UserSession {
	name, ok := s.Get(SessionScopeServer, sessionKeyUsername).(string)
	if !ok || name == "" {
		return UserSession{}
	}
	id, _ := s.Get(SessionScopeServer, sessionKeyUserID).(uint)
	flags, _ := s.Get(SessionScopeServer, sessionKeyFlags).(int64)
	return UserSession{
		Username: name,
		UserID:   id,
		Flags:    model.FlagsFromInt(flags),
	}
}

// setSessionUser stores all three identity fields and saves once, so
// a session is never persisted with a partial snapshot.
func setSessionUser(s *Session, us UserSession) {
	s.Set(SessionScopeServer, sessionKeyUsername, us.Username)
	s.Set(SessionScopeServer, sessionKeyUserID, us.UserID)
	s.Set(SessionScopeServer, sessionKeyFlags, us.Flags.Int())
	s.Save()
}

// clearSessionUser removes every identity field. Safe to call on an
// already-anonymous session.
func clearSessionUser(s *Session) {
	s.Delete(SessionScopeServer, sessionKeyUsername)
	s.Delete(SessionScopeServer, sessionKeyUserID)
	s.Delete(SessionScopeServer, sessionKeyFlags)
	s.Save()
}

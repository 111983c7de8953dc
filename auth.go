package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"

	"github.com/quotedb/qdb/model"
)

// AuthService owns the session lifecycle: it is the only code that
// populates or clears a session's identity snapshot.
type AuthService struct {
	Broker model.Broker
	Log    logrus.FieldLogger
}

// Login verifies the supplied credentials and, on success, atomically
// installs the user's identity snapshot into the session.
//
// A session that already carries an identity is rejected with
// ErrAlreadyLoggedIn; log out first.
func (a *AuthService) Login(s *Session, name, password string) (UserSession, error) {
	if sessionUser(s).LoggedIn() {
		return UserSession{}, ErrAlreadyLoggedIn
	}

	user, err := a.Broker.GetUserNamed(name)
	if err == model.ErrNotFound {
		return UserSession{}, ErrUserNotFound
	}
	if err != nil {
		return UserSession{}, err
	}

	if !user.Check(password) {
		return UserSession{}, ErrInvalidCredentials
	}

	us := UserSession{
		Username: user.GetName(),
		UserID:   user.GetID(),
		Flags:    user.GetFlags(),
	}
	setSessionUser(s, us)
	return us, nil
}

// Logout clears the session's identity. A no-op on an anonymous
// session.
func (a *AuthService) Logout(s *Session) {
	clearSessionUser(s)
}

type AuthController struct {
	Auth     *AuthService
	Broker   model.Broker
	Sessions *SessionBroker
	Log      logrus.FieldLogger
}

func (ac *AuthController) loginGetHandler(w http.ResponseWriter, r *http.Request) {
	writeReply(w, &jsonReply{Status: "login required"})
}

func (ac *AuthController) loginPostHandler(w http.ResponseWriter, r *http.Request) {
	reply := &jsonReply{
		Status:    "invalid",
		ExtraData: make(map[string]string),
	}
	defer func() {
		writeReply(w, reply)
	}()

	username, password := r.FormValue("name"), r.FormValue("password")
	if username == "" || password == "" {
		reply.Reason = "invalid request body"
		reply.InvalidFields = []string{"name", "password"}
		return
	}

	us, err := ac.Auth.Login(ac.Sessions.Get(r), username, password)
	switch err {
	case nil:
		reply.Status = "valid"
		reply.ExtraData["username"] = us.Username
	case ErrAlreadyLoggedIn:
		reply.Reason = "you're already logged in"
	case ErrUserNotFound, ErrInvalidCredentials:
		// one answer for both; don't reveal which half was wrong
		reply.Reason = "user/password invalid"
		reply.InvalidFields = []string{"name", "password"}
	default:
		ac.Log.WithError(err).Error("login failed")
		reply.Reason = "internal error"
	}
}

func (ac *AuthController) logoutHandler(w http.ResponseWriter, r *http.Request) {
	ac.Auth.Logout(ac.Sessions.Get(r))
	writeReply(w, &jsonReply{Status: "valid"})
}

func (ac *AuthController) registerGetHandler(w http.ResponseWriter, r *http.Request) {
	writeReply(w, &jsonReply{Status: "registration required"})
}

func (ac *AuthController) registerPostHandler(w http.ResponseWriter, r *http.Request) {
	reply := &jsonReply{
		Status:    "invalid",
		ExtraData: make(map[string]string),
	}
	defer func() {
		writeReply(w, reply)
	}()

	username, password := r.FormValue("name"), r.FormValue("password")
	if username == "" || password == "" {
		reply.Reason = "invalid request body"
		reply.InvalidFields = []string{"name", "password"}
		return
	}

	// New users start with no permission bits; a moderator grants
	// them via set_flags.
	user, err := ac.Broker.CreateUser(username, password)
	if err != nil {
		ac.Log.WithError(err).WithField("name", username).Error("registration failed")
		reply.Reason = "error saving your user"
		return
	}

	reply.Status = "valid"
	reply.ExtraData["username"] = user.GetName()
}

func (ac *AuthController) InitRoutes(router *mux.Router) {
	loggedIn := alice.New(RequireRoles(ac.Sessions, model.RoleLoggedIn))

	router.Methods("GET").Path("/user/login").HandlerFunc(ac.loginGetHandler)
	router.Methods("POST").Path("/user/login").HandlerFunc(ac.loginPostHandler)
	router.Methods("GET").Path("/user/logout").Handler(loggedIn.ThenFunc(ac.logoutHandler))
	router.Methods("GET").Path("/user/register").HandlerFunc(ac.registerGetHandler)
	router.Methods("POST").Path("/user/register").HandlerFunc(ac.registerPostHandler)

	router.Methods("GET").Path("/login").Handler(RedirectHandler("/user/login"))
	router.Methods("GET").Path("/logout").Handler(RedirectHandler("/user/logout"))
	router.Methods("GET").Path("/register").Handler(RedirectHandler("/user/register"))
}

package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"

	"github.com/quotedb/qdb/lib/modlog"
	"github.com/quotedb/qdb/model"
)

const usersPerPage = 10

type UserController struct {
	Auth     *AuthService
	Broker   model.Broker
	Sessions *SessionBroker
	ModLog   modlog.Logger
	Log      logrus.FieldLogger
}

func userJSON(u model.User) map[string]interface{} {
	roles := make([]string, 0, 6)
	for _, r := range u.GetFlags().Roles() {
		roles = append(roles, r.String())
	}
	return map[string]interface{}{
		"id":    u.GetID(),
		"name":  u.GetName(),
		"flags": u.GetFlags().Int(),
		"roles": roles,
	}
}

// ownUser resolves the session's user record. Sessions can outlive
// their user (self-deletion in another tab), so a miss is expected.
func (uc *UserController) ownUser(r *http.Request) (model.User, error) {
	us := sessionUser(uc.Sessions.Get(r))
	return uc.Broker.GetUserByID(us.UserID)
}

func (uc *UserController) settingsHandler(w http.ResponseWriter, r *http.Request) {
	user, err := uc.ownUser(r)
	if err != nil {
		writeError(w, http.StatusNotFound, &jsonReply{Status: "invalid", Reason: "your user was not found"})
		return
	}
	writeJSON(w, userJSON(user))
}

func (uc *UserController) changePasswordHandler(w http.ResponseWriter, r *http.Request) {
	reply := &jsonReply{Status: "invalid"}
	defer func() {
		writeReply(w, reply)
	}()

	user, err := uc.ownUser(r)
	if err != nil {
		reply.Reason = "your user was not found"
		return
	}

	old, password, confirm := r.FormValue("old_password"), r.FormValue("password"), r.FormValue("password_confirm")
	if !user.Check(old) {
		reply.Reason = "your old password wasn't correct"
		reply.InvalidFields = []string{"old_password"}
		return
	}
	if password == "" || password != confirm {
		reply.Reason = "two new passwords didn't match"
		reply.InvalidFields = []string{"password", "password_confirm"}
		return
	}

	if err := user.UpdatePassword(password); err != nil {
		uc.Log.WithError(err).WithField("user", user.GetName()).Error("password update failed")
		reply.Reason = "failed to save your password"
		return
	}
	reply.Status = "valid"
}

func (uc *UserController) deleteSelfHandler(w http.ResponseWriter, r *http.Request) {
	user, err := uc.ownUser(r)
	if err != nil {
		writeError(w, http.StatusNotFound, &jsonReply{Status: "invalid", Reason: "your user was not found"})
		return
	}

	if err := user.Erase(); err != nil {
		uc.Log.WithError(err).WithField("user", user.GetName()).Error("user delete failed")
		writeReply(w, &jsonReply{Status: "invalid", Reason: "error deleting your user"})
		return
	}

	uc.Auth.Logout(uc.Sessions.Get(r))
	writeReply(w, &jsonReply{Status: "valid"})
}

func (uc *UserController) listHandler(w http.ResponseWriter, r *http.Request) {
	users, err := uc.Broker.ListUsers(requestPage(r), usersPerPage)
	if err != nil {
		uc.Log.WithError(err).Error("user list failed")
		writeError(w, http.StatusInternalServerError, &jsonReply{Status: "invalid", Reason: "internal error"})
		return
	}

	out := make([]map[string]interface{}, len(users))
	for i, u := range users {
		out[i] = userJSON(u)
	}
	writeJSON(w, out)
}

func (uc *UserController) targetUser(r *http.Request) (model.User, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		return nil, model.ErrNotFound
	}
	return uc.Broker.GetUserByID(uint(id))
}

func (uc *UserController) getFlagsHandler(w http.ResponseWriter, r *http.Request) {
	user, err := uc.targetUser(r)
	if err != nil {
		writeError(w, http.StatusNotFound, &jsonReply{Status: "invalid", Reason: "no such user"})
		return
	}
	writeJSON(w, userJSON(user))
}

func (uc *UserController) setFlagsHandler(w http.ResponseWriter, r *http.Request) {
	if r.FormValue("flags") == "" {
		writeReply(w, &jsonReply{Status: "invalid", Reason: "invalid form data, 'flags' needed", InvalidFields: []string{"flags"}})
		return
	}

	// The submitted integer is stored verbatim: bits outside the role
	// enumeration are kept (they're inert — no check ever tests them).
	flags, err := strconv.ParseInt(r.FormValue("flags"), 10, 64)
	if err != nil {
		writeReply(w, &jsonReply{Status: "invalid", Reason: "invalid form data, 'flags' needed", InvalidFields: []string{"flags"}})
		return
	}

	user, err := uc.targetUser(r)
	if err != nil {
		writeError(w, http.StatusNotFound, &jsonReply{Status: "invalid", Reason: "no such user"})
		return
	}

	if err := user.SetFlags(model.FlagsFromInt(flags)); err != nil {
		uc.Log.WithError(err).WithField("user", user.GetName()).Error("flag update failed")
		writeReply(w, &jsonReply{Status: "invalid", Reason: "error saving user"})
		return
	}

	us := sessionUser(uc.Sessions.Get(r))
	uc.ModLog.Record(us.Username, model.RoleSetFlags.String(),
		fmt.Sprintf("%d -> %d", user.GetID(), flags))

	writeReply(w, &jsonReply{
		Status:    "valid",
		ExtraData: map[string]string{"name": user.GetName(), "flags": fmt.Sprint(flags)},
	})
}

func (uc *UserController) InitRoutes(router *mux.Router) {
	loggedIn := alice.New(RequireRoles(uc.Sessions, model.RoleLoggedIn))
	listUsers := alice.New(RequireRoles(uc.Sessions, model.RoleListUsers))
	setFlags := alice.New(RequireRoles(uc.Sessions, model.RoleSetFlags))

	router.Methods("GET").Path("/user/settings").Handler(loggedIn.ThenFunc(uc.settingsHandler))
	router.Methods("POST").Path("/user/change_pw").Handler(loggedIn.ThenFunc(uc.changePasswordHandler))
	router.Methods("POST").Path("/user/delete").Handler(loggedIn.ThenFunc(uc.deleteSelfHandler))

	router.Methods("GET").Path("/user/list").Handler(listUsers.ThenFunc(uc.listHandler))
	router.Methods("GET").Path("/user/{id:[0-9]+}/set_flags").Handler(setFlags.ThenFunc(uc.getFlagsHandler))
	router.Methods("POST").Path("/user/{id:[0-9]+}/set_flags").Handler(setFlags.ThenFunc(uc.setFlagsHandler))
}

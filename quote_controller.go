package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"

	"github.com/quotedb/qdb/lib/modlog"
	"github.com/quotedb/qdb/model"
)

const quotesPerPage = 10

type QuoteController struct {
	Broker   model.Broker
	Sessions *SessionBroker
	ModLog   modlog.Logger
	Log      logrus.FieldLogger

	// Policy strips markup from submitted quote bodies.
	Policy *bluemonday.Policy
}

func quoteJSON(q model.Quote) map[string]interface{} {
	return map[string]interface{}{
		"id":       q.GetID(),
		"author":   q.GetAuthor(),
		"quote":    q.GetBody(),
		"approved": q.IsApproved(),
	}
}

func quotesJSON(qs []model.Quote) []map[string]interface{} {
	out := make([]map[string]interface{}, len(qs))
	for i, q := range qs {
		out[i] = quoteJSON(q)
	}
	return out
}

func requestPage(r *http.Request) int {
	page, err := strconv.Atoi(r.FormValue("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func quoteID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func (qc *QuoteController) listHandler(w http.ResponseWriter, r *http.Request) {
	quotes, err := qc.Broker.ApprovedQuotes(requestPage(r), quotesPerPage)
	if err != nil {
		qc.Log.WithError(err).Error("quote list failed")
		writeError(w, http.StatusInternalServerError, &jsonReply{Status: "invalid", Reason: "internal error"})
		return
	}
	writeJSON(w, quotesJSON(quotes))
}

func (qc *QuoteController) viewHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := quoteID(r)
	if !ok {
		writeError(w, http.StatusNotFound, &jsonReply{Status: "invalid", Reason: "no such quote"})
		return
	}

	quote, err := qc.Broker.GetQuote(id)

	// Unapproved quotes are only visible to approvers; everyone else
	// gets the same answer as for a quote that doesn't exist.
	us := sessionUser(qc.Sessions.Get(r))
	visible := err == nil && (quote.IsApproved() || Authorize(us, model.RoleApproveQuotes).Allowed)
	if !visible {
		if err != nil && err != model.ErrNotFound {
			qc.Log.WithError(err).WithField("quote", id).Error("quote lookup failed")
		}
		writeError(w, http.StatusNotFound, &jsonReply{Status: "invalid", Reason: "no such quote"})
		return
	}

	writeJSON(w, quoteJSON(quote))
}

func (qc *QuoteController) newQuoteHandler(w http.ResponseWriter, r *http.Request) {
	body := qc.Policy.Sanitize(r.FormValue("quote"))
	if body == "" {
		writeReply(w, &jsonReply{Status: "invalid", Reason: "invalid form data", InvalidFields: []string{"quote"}})
		return
	}

	us := sessionUser(qc.Sessions.Get(r))
	quote, err := qc.Broker.CreateQuote(us.Username, body)
	if err != nil {
		qc.Log.WithError(err).Error("quote save failed")
		writeReply(w, &jsonReply{Status: "invalid", Reason: "error saving the quote"})
		return
	}

	qc.ModLog.Record(us.Username, model.RolePostQuotes.String(), fmt.Sprint(quote.GetID()))
	redirectTo(w, "/quotes/")
}

func (qc *QuoteController) editQuoteHandler(w http.ResponseWriter, r *http.Request) {
	author, body := r.FormValue("author"), qc.Policy.Sanitize(r.FormValue("quote"))
	if author == "" || body == "" {
		writeReply(w, &jsonReply{Status: "invalid", Reason: "invalid form data", InvalidFields: []string{"author", "quote"}})
		return
	}

	id, ok := quoteID(r)
	if !ok {
		writeError(w, http.StatusNotFound, &jsonReply{Status: "invalid", Reason: "no such quote"})
		return
	}

	quote, err := qc.Broker.GetQuote(id)
	if err == model.ErrNotFound {
		writeError(w, http.StatusNotFound, &jsonReply{Status: "invalid", Reason: "no such quote"})
		return
	}
	if err == nil {
		err = quote.Update(author, body)
	}
	if err != nil {
		qc.Log.WithError(err).WithField("quote", id).Error("quote save failed")
		writeReply(w, &jsonReply{Status: "invalid", Reason: "error saving quote"})
		return
	}

	us := sessionUser(qc.Sessions.Get(r))
	qc.ModLog.Record(us.Username, model.RoleEditQuotes.String(), fmt.Sprint(id))
	redirectTo(w, fmt.Sprintf("/quote/%d", id))
}

func (qc *QuoteController) deleteQuoteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := quoteID(r)
	if !ok {
		writeError(w, http.StatusNotFound, &jsonReply{Status: "invalid", Reason: "no such quote"})
		return
	}

	quote, err := qc.Broker.GetQuote(id)
	if err == model.ErrNotFound {
		writeError(w, http.StatusNotFound, &jsonReply{Status: "invalid", Reason: "no such quote"})
		return
	}
	if err == nil {
		err = quote.Erase()
	}
	if err != nil {
		qc.Log.WithError(err).WithField("quote", id).Error("quote delete failed")
		writeReply(w, &jsonReply{Status: "invalid", Reason: "error deleting quote"})
		return
	}

	us := sessionUser(qc.Sessions.Get(r))
	qc.ModLog.Record(us.Username, model.RoleDeleteQuotes.String(), fmt.Sprint(id))
	writeReply(w, &jsonReply{Status: "valid"})
}

func (qc *QuoteController) approveQuoteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := quoteID(r)
	if !ok {
		writeError(w, http.StatusNotFound, &jsonReply{Status: "invalid", Reason: "no such quote"})
		return
	}

	quote, err := qc.Broker.GetQuote(id)
	if err == model.ErrNotFound {
		writeError(w, http.StatusNotFound, &jsonReply{Status: "invalid", Reason: "no such quote"})
		return
	}
	if err == nil {
		err = quote.Approve()
	}
	if err != nil {
		qc.Log.WithError(err).WithField("quote", id).Error("quote approve failed")
		writeReply(w, &jsonReply{Status: "invalid", Reason: "error saving quote"})
		return
	}

	writeReply(w, &jsonReply{Status: "valid"})
}

func (qc *QuoteController) moderationQueueHandler(w http.ResponseWriter, r *http.Request) {
	quotes, err := qc.Broker.UnapprovedQuotes()
	if err != nil {
		qc.Log.WithError(err).Error("moderation queue failed")
		writeError(w, http.StatusInternalServerError, &jsonReply{Status: "invalid", Reason: "internal error"})
		return
	}
	writeJSON(w, quotesJSON(quotes))
}

func (qc *QuoteController) InitRoutes(router *mux.Router) {
	post := alice.New(RequireRoles(qc.Sessions, model.RolePostQuotes))
	edit := alice.New(RequireRoles(qc.Sessions, model.RoleEditQuotes))
	del := alice.New(RequireRoles(qc.Sessions, model.RoleDeleteQuotes))
	approve := alice.New(RequireRoles(qc.Sessions, model.RoleApproveQuotes))

	router.Methods("GET").Path("/quotes/").HandlerFunc(qc.listHandler)
	router.Methods("GET").Path("/quotes").Handler(RedirectHandler("/quotes/"))
	router.Methods("GET").Path("/quote").Handler(RedirectHandler("/quotes/"))

	router.Methods("POST").Path("/quote/new").Handler(post.ThenFunc(qc.newQuoteHandler))
	router.Methods("GET").Path("/quote/{id:[0-9]+}").HandlerFunc(qc.viewHandler)
	router.Methods("POST").Path("/quote/{id:[0-9]+}/edit").Handler(edit.ThenFunc(qc.editQuoteHandler))
	router.Methods("POST").Path("/quote/{id:[0-9]+}/delete").Handler(del.ThenFunc(qc.deleteQuoteHandler))
	router.Methods("POST").Path("/quote/{id:[0-9]+}/approve").Handler(approve.ThenFunc(qc.approveQuoteHandler))

	router.Methods("GET").Path("/moderate/queue").Handler(approve.ThenFunc(qc.moderationQueueHandler))
}

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"net/url"

	"github.com/ignite/newsletter/internal/auth"
	"github.com/ignite/newsletter/internal/domain"
	"github.com/ignite/newsletter/internal/pkg/logger"
	"github.com/ignite/newsletter/internal/service/newsletter"
	"github.com/ignite/newsletter/internal/service/subscription"
)

// Handlers holds the service dependencies for all HTTP endpoints.
type Handlers struct {
	subs     *subscription.Service
	news     *newsletter.Service
	verifier *auth.Verifier
}

// NewHandlers creates the handler set.
func NewHandlers(subs *subscription.Service, news *newsletter.Service, verifier *auth.Verifier) *Handlers {
	return &Handlers{subs: subs, news: news, verifier: verifier}
}

// HealthCheck reports liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Subscribe handles POST /subscriptions with a form-encoded name and email.
func (h *Handlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "malformed form body")
		return
	}
	// A missing field is a different client bug than a present-but-invalid
	// value, and gets a different status.
	if !r.PostForm.Has("name") || !r.PostForm.Has("email") {
		writeError(w, http.StatusUnprocessableEntity, "name and email are required")
		return
	}

	email, err := domain.ParseEmail(r.PostForm.Get("email"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name, err := domain.ParseName(r.PostForm.Get("name"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.subs.Subscribe(r.Context(), domain.NewSubscriber{Email: email, Name: name})
	switch {
	case err == nil:
		w.WriteHeader(http.StatusOK)
	case errors.Is(err, subscription.ErrAlreadySubscribed):
		writeError(w, http.StatusConflict, "email is already subscribed")
	default:
		logger.Error("subscribe failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// Confirm handles GET /subscriptions/confirm?subscription_token=...
func (h *Handlers) Confirm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("subscription_token")

	err := h.subs.Confirm(r.Context(), token)
	var vErr *domain.ValidationError
	switch {
	case err == nil:
		w.WriteHeader(http.StatusOK)
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, subscription.ErrTokenNotFound):
		writeError(w, http.StatusNotFound, "subscription token not found")
	default:
		logger.Error("confirm failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// PublishNewsletter handles POST /newsletters. The endpoint is protected by
// HTTP Basic auth against the users table.
func (h *Handlers) PublishNewsletter(w http.ResponseWriter, r *http.Request) {
	creds, err := auth.ParseBasicAuth(r.Header.Get("Authorization"))
	if err != nil {
		unauthorized(w)
		return
	}
	userID, err := h.verifier.ValidateCredentials(r.Context(), creds)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrInvalidCredentials):
		logger.Warn("newsletter publish rejected", "username", creds.Username)
		unauthorized(w)
		return
	default:
		logger.Error("credential validation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	var issue newsletter.Issue
	if err := json.NewDecoder(r.Body).Decode(&issue); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "malformed newsletter body")
		return
	}
	if err := issue.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := h.news.Publish(r.Context(), issue); err != nil {
		logger.Error("newsletter publish failed", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// LoginForm handles GET /login and renders the login page. A failed login
// redirects back here with the error message in the query string.
func (h *Handlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	errorHTML := ""
	if msg := r.URL.Query().Get("error"); msg != "" {
		errorHTML = fmt.Sprintf("<p><i>%s</i></p>\n    ", html.EscapeString(msg))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, loginPage, errorHTML)
}

// Login handles POST /login with form-encoded username and password.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		loginRedirect(w, r, "malformed form body")
		return
	}
	creds := auth.Credentials{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}

	_, err := h.verifier.ValidateCredentials(r.Context(), creds)
	switch {
	case err == nil:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, auth.ErrInvalidCredentials):
		logger.Warn("login rejected", "username", creds.Username)
		loginRedirect(w, r, "Authentication failed")
	default:
		// Operational faults also land back on the form; the login page
		// never surfaces a bare error body.
		logger.Error("login failed", "error", err)
		loginRedirect(w, r, "Something went wrong")
	}
}

const loginPage = `<!DOCTYPE html>
<html lang="en">
  <head>
    <meta http-equiv="content-type" content="text/html; charset=utf-8">
    <title>Login</title>
  </head>
  <body>
    %s<form action="/login" method="post">
      <label>Username
        <input type="text" placeholder="Enter Username" name="username">
      </label>
      <label>Password
        <input type="password" placeholder="Enter Password" name="password">
      </label>
      <button type="submit">Login</button>
    </form>
  </body>
</html>
`

func loginRedirect(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/login?error="+url.QueryEscape(msg), http.StatusSeeOther)
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="publish"`)
	writeError(w, http.StatusUnauthorized, "invalid credentials")
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("write response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

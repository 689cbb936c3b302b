// Package httpserver exposes the Brainly HTTP/JSON API.
package httpserver

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"

	"github.com/and161185/brainly/internal/errs"
	"github.com/and161185/brainly/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/gofrs/uuid/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server wires services into HTTP handlers.
type Server struct {
	auth    service.AuthService
	content service.ContentService
	share   service.ShareService
	tokens  TokenVerifier
	log     *zap.Logger
	ping    func(ctx context.Context) error
}

// Option customizes a Server.
type Option func(*Server)

// WithPing sets the storage probe used by /healthz.
func WithPing(fn func(ctx context.Context) error) Option {
	return func(s *Server) { s.ping = fn }
}

// New constructs an HTTP server with injected services.
func New(auth service.AuthService, content service.ContentService, share service.ShareService, tokens TokenVerifier, log *zap.Logger, opts ...Option) *Server {
	s := &Server{auth: auth, content: content, share: share, tokens: tokens, log: log}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(Logging(s.log))
	r.Use(Metrics)
	r.Use(Recover(s.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// set before Route so the /api/v1 subrouter inherits them
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, r, http.StatusNotFound, msgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, r, http.StatusMethodNotAllowed, msgBadMethod)
	})

	r.Get("/", s.welcome)
	r.Get("/healthz", s.healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/signup", s.signup)
		r.Post("/signin", s.signin)
		r.Get("/brain/{shareLink}", s.resolveShare)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(s.tokens))
			r.Post("/content", s.createContent)
			r.Get("/content", s.listContent)
			r.Delete("/content", s.deleteContent)
			r.Post("/brain/share", s.setShare)
		})
	})
	return r
}

// internalError logs err and answers 500 without leaking details.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	s.log.Error(op,
		zap.Error(err),
		zap.String("request_id", middleware.GetReqID(r.Context())),
	)
	writeMessage(w, r, http.StatusInternalServerError, msgInternal)
}

// decode reads a JSON body. An empty body leaves v zero-valued.
func decode(r *http.Request, v any) error {
	if err := render.DecodeJSON(r.Body, v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) welcome(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, r, http.StatusOK, msgWelcome)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.ping != nil {
		if err := s.ping(r.Context()); err != nil {
			s.log.Warn("health: storage unreachable", zap.Error(err))
			writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Auth ---

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decode(r, &req); err != nil {
		writeMessage(w, r, http.StatusBadRequest, msgMissingDetails)
		return
	}
	tok, err := s.auth.Signup(r.Context(), service.SignupInput{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusOK, tokenResponse{Token: tok})
	case errors.Is(err, errs.ErrValidation):
		writeMessage(w, r, http.StatusBadRequest, msgMissingDetails)
	case errors.Is(err, errs.ErrAlreadyExists):
		writeMessage(w, r, http.StatusConflict, msgUserExists)
	default:
		s.internalError(w, r, "signup", err)
	}
}

func (s *Server) signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := decode(r, &req); err != nil {
		writeMessage(w, r, http.StatusBadRequest, msgMissingDetails)
		return
	}
	tok, err := s.auth.Signin(r.Context(), req.Username, req.Password, clientIP(r))
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusOK, tokenResponse{Token: tok})
	case errors.Is(err, errs.ErrValidation):
		writeMessage(w, r, http.StatusBadRequest, msgMissingDetails)
	case errors.Is(err, errs.ErrRateLimited):
		writeMessage(w, r, http.StatusTooManyRequests, msgRateLimited)
	case errors.Is(err, errs.ErrUnauthorized):
		writeMessage(w, r, http.StatusForbidden, msgBadCredentials)
	default:
		s.internalError(w, r, "signin", err)
	}
}

// --- Content ---

func (s *Server) createContent(w http.ResponseWriter, r *http.Request) {
	uid, _ := UserIDFromCtx(r.Context())
	var req contentRequest
	if err := decode(r, &req); err != nil {
		writeMessage(w, r, http.StatusBadRequest, msgBadBody)
		return
	}
	_, err := s.content.Create(r.Context(), uid, service.ContentInput{
		Link:  req.Link,
		Type:  req.Type,
		Title: req.Title,
	})
	switch {
	case err == nil:
		writeMessage(w, r, http.StatusOK, msgContentAdded)
	case errors.Is(err, errs.ErrValidation):
		writeMessage(w, r, http.StatusBadRequest, msgMissingContent)
	default:
		s.internalError(w, r, "create content", err)
	}
}

func (s *Server) listContent(w http.ResponseWriter, r *http.Request) {
	uid, _ := UserIDFromCtx(r.Context())
	list, err := s.content.List(r.Context(), uid)
	if err != nil {
		s.internalError(w, r, "list content", err)
		return
	}
	writeJSON(w, r, http.StatusOK, contentListResponse{Content: toContentDTOs(list)})
}

func (s *Server) deleteContent(w http.ResponseWriter, r *http.Request) {
	uid, _ := UserIDFromCtx(r.Context())
	var req deleteContentRequest
	if err := decode(r, &req); err != nil {
		writeMessage(w, r, http.StatusBadRequest, msgBadBody)
		return
	}
	id, err := uuid.FromString(req.ContentID)
	if err != nil || id == uuid.Nil {
		writeMessage(w, r, http.StatusBadRequest, msgContentIDNeeded)
		return
	}
	if err := s.content.Delete(r.Context(), uid, id); err != nil {
		s.internalError(w, r, "delete content", err)
		return
	}
	writeMessage(w, r, http.StatusOK, msgContentDeleted)
}

// --- Share ---

// setShare enables sharing on {"share":true}; anything else, including an empty body, disables it.
func (s *Server) setShare(w http.ResponseWriter, r *http.Request) {
	uid, _ := UserIDFromCtx(r.Context())
	var req shareRequest
	if err := decode(r, &req); err != nil {
		writeMessage(w, r, http.StatusBadRequest, msgBadBody)
		return
	}
	if !req.Share {
		if err := s.share.Disable(r.Context(), uid); err != nil {
			s.internalError(w, r, "disable share", err)
			return
		}
		writeMessage(w, r, http.StatusOK, msgShareRemoved)
		return
	}
	hash, err := s.share.Enable(r.Context(), uid)
	if err != nil {
		s.internalError(w, r, "enable share", err)
		return
	}
	writeJSON(w, r, http.StatusOK, shareResponse{Hash: hash})
}

func (s *Server) resolveShare(w http.ResponseWriter, r *http.Request) {
	brain, err := s.share.Resolve(r.Context(), chi.URLParam(r, "shareLink"))
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusOK, sharedBrainResponse{
			Username: brain.Username,
			Content:  toContentDTOs(brain.Content),
		})
	case errors.Is(err, service.ErrInvalidShareLink):
		writeMessage(w, r, http.StatusBadRequest, msgInvalidShare)
	case errors.Is(err, service.ErrOwnerNotFound):
		writeMessage(w, r, http.StatusBadRequest, msgUserNotFound)
	default:
		s.internalError(w, r, "resolve share", err)
	}
}

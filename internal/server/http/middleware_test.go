package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/and161185/brainly/internal/token"
	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestTokenFromHeader(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":                "",
		"abc":             "abc",
		"Bearer abc":      "abc",
		"bearer   abc  ":  "abc",
		"  raw.jwt.value": "raw.jwt.value",
	}
	for hdr, want := range cases {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if hdr != "" {
			r.Header.Set("Authorization", hdr)
		}
		require.Equal(t, want, tokenFromHeader(r), "header %q", hdr)
	}
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	tokens := token.New([]byte("k"), time.Hour)
	uid := uuid.Must(uuid.NewV4())
	good, err := tokens.Issue(uid, "alice")
	require.NoError(t, err)

	called := false
	var seen uuid.UUID
	h := RequireAuth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		seen, _ = UserIDFromCtx(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.False(t, called)

	var out messageResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	require.Equal(t, "You are not logged in", out.Message)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", good)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.True(t, called)
	require.Equal(t, uid, seen)
}

func TestRecover_Returns500(t *testing.T) {
	t.Parallel()

	h := Recover(zaptest.NewLogger(t))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var out messageResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	require.Equal(t, "Internal server error", out.Message)
}

func TestLogging_RouteAndStatus(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	r := chi.NewRouter()
	r.Use(Logging(zap.New(core)))
	r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Get("/plain", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/42", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/plain", nil))

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	require.Equal(t, "GET", first["method"])
	require.Equal(t, "/items/{id}", first["route"])
	require.EqualValues(t, http.StatusTeapot, first["status"])

	// implicit 200 when the handler never calls WriteHeader
	require.EqualValues(t, http.StatusOK, entries[1].ContextMap()["status"])
}

func TestRoutePattern_OutsideRouter(t *testing.T) {
	t.Parallel()
	require.Equal(t, "unmatched", routePattern(httptest.NewRequest(http.MethodGet, "/x", nil)))
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinaaaquil/dejapp/content"
	"github.com/kevinaaaquil/dejapp/listing"
	"github.com/kevinaaaquil/dejapp/metrics"
	"github.com/kevinaaaquil/dejapp/models"
	"github.com/kevinaaaquil/dejapp/policy"
	"github.com/kevinaaaquil/dejapp/service"
	"github.com/kevinaaaquil/dejapp/store/memstore"
)

type discardMailer struct{}

func (discardMailer) SendConfirmation(context.Context, *models.Profile, string) error { return nil }

type testServer struct {
	handler http.Handler
	store   *memstore.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st := memstore.New()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New(prometheus.NewRegistry())
	gate := policy.NewGate(policy.MutateAdminOnly)
	catalog, err := content.Default()
	require.NoError(t, err)

	sessions := &service.SessionProvider{
		Profiles:      st,
		Confirmations: st,
		Mailer:        discardMailer{},
		Roles:         policy.RoleRule{Kind: policy.RoleRuleSuffix, Suffix: "@admin"},
		Tokens:        &service.TokenIssuer{Secret: []byte("handler-test"), TTL: time.Hour},
		Sessions:      service.NewSessionRegistry(time.Hour),
		Metrics:       m,
		Logger:        log,
		PublicURL:     "http://localhost",
	}
	docs := &service.Documents{Store: st, Gate: gate, Metrics: m, Logger: log}

	return &testServer{
		store: st,
		handler: NewRouter(RouterConfig{
			Auth:     &AuthHandler{Sessions: sessions, Gate: gate},
			Docs:     &DocumentsHandler{Docs: docs, Gate: gate, SearchFields: listing.DefaultFields},
			Content:  &ContentHandler{Catalog: catalog},
			Profiles: &ProfilesHandler{Profiles: st},
			Metrics:  m,
			Logger:   log,
		}),
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	var out map[string]any
	if rec.Body.Len() > 0 && rec.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

// signUpIn creates an account and returns a bearer token for it.
func (s *testServer) signUpIn(t *testing.T, email, name string) string {
	t.Helper()
	rec, _ := s.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": email, "password": "secret1", "full_name": name,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec, body := s.do(t, http.MethodPost, "/api/auth/signin", "", map[string]string{
		"email": email, "password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return body["token"].(string)
}

func draftBody() map[string]string {
	return map[string]string{
		"title":       "Estatuto",
		"description": "Regras internas",
		"category":    models.CategoryAdministrative,
		"drive_link":  "https://drive.google.com/open?id=xyz",
	}
}

func TestHealthAndWelcome(t *testing.T) {
	s := newTestServer(t)
	rec, body := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])

	rec, _ = s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSignUpAssignsRole(t *testing.T) {
	s := newTestServer(t)
	admin := s.signUpIn(t, "x@admin", "Diretoria")
	member := s.signUpIn(t, "ana@example.com", "Ana")

	_, body := s.do(t, http.MethodGet, "/api/me", admin, nil)
	assert.Equal(t, models.RoleAdmin, body["profile"].(map[string]any)["user_type"])
	assert.Equal(t, true, body["capabilities"].(map[string]any)["is_admin"])

	_, body = s.do(t, http.MethodGet, "/api/me", member, nil)
	assert.Equal(t, models.RoleMember, body["profile"].(map[string]any)["user_type"])
	assert.Nil(t, body["profile"].(map[string]any)["password"])
}

func TestSignInFailureNotification(t *testing.T) {
	s := newTestServer(t)
	rec, body := s.do(t, http.MethodPost, "/api/auth/signin", "", map[string]string{"email": "a@b.c", "password": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_credentials", body["error"])
	n := body["notification"].(map[string]any)
	assert.Equal(t, "destructive", n["variant"])
	assert.Equal(t, "Erro no login", n["title"])
}

func TestDocumentLifecycle(t *testing.T) {
	s := newTestServer(t)
	admin := s.signUpIn(t, "x@admin", "Diretoria")
	member := s.signUpIn(t, "ana@example.com", "Ana")

	rec, body := s.do(t, http.MethodGet, "/api/documents", member, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, listing.EmptyCreateFirst, body["empty"])

	rec, body = s.do(t, http.MethodPost, "/api/documents", member, draftBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	doc := body["document"].(map[string]any)
	id := doc["id"].(string)
	assert.Equal(t, "Ana", doc["author_name"])
	assert.Equal(t, "default", body["notification"].(map[string]any)["variant"])

	_, body = s.do(t, http.MethodGet, "/api/documents", member, nil)
	items := body["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, "Estatuto", item["title"])
	assert.Equal(t, "Ana", item["author_name"])
	assert.Equal(t, false, item["can_edit"], "members never get edit controls")
	assert.Equal(t, false, item["can_delete"])

	rec, _ = s.do(t, http.MethodPatch, "/api/documents/"+id, member, map[string]string{"title": "x"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, body = s.do(t, http.MethodPatch, "/api/documents/"+id, admin, map[string]string{"title": "Estatuto 2026"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Estatuto 2026", body["document"].(map[string]any)["title"])

	_, body = s.do(t, http.MethodGet, "/api/documents?q=2026", admin, nil)
	items = body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, true, items[0].(map[string]any)["can_edit"])

	_, body = s.do(t, http.MethodGet, "/api/documents?category="+models.CategoryTraining, admin, nil)
	assert.Empty(t, body["items"])
	assert.Equal(t, listing.EmptyNoResults, body["empty"])

	rec, body = s.do(t, http.MethodDelete, "/api/documents/"+id, admin, nil)
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)
	assert.Equal(t, "confirmation_required", body["error"])

	rec, _ = s.do(t, http.MethodDelete, "/api/documents/"+id+"?confirm=true", admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	_, body = s.do(t, http.MethodGet, "/api/documents", admin, nil)
	assert.Empty(t, body["items"])
}

func TestCreateRejectsBadLinkAndEmptyTitle(t *testing.T) {
	s := newTestServer(t)
	admin := s.signUpIn(t, "x@admin", "Diretoria")

	d := draftBody()
	d["drive_link"] = "https://example.com/file.pdf"
	rec, body := s.do(t, http.MethodPost, "/api/documents", admin, d)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "invalid_drive_link", body["fields"].(map[string]any)["drive_link"])

	d = draftBody()
	d["title"] = ""
	rec, body = s.do(t, http.MethodPost, "/api/documents", admin, d)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "required", body["fields"].(map[string]any)["title"])

	docs, err := s.store.ListDocuments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs, "nothing reaches the store")
}

func TestListDegradesWhenStoreDown(t *testing.T) {
	s := newTestServer(t)
	member := s.signUpIn(t, "ana@example.com", "Ana")
	s.store.Err = errors.New("connection reset")

	rec, body := s.do(t, http.MethodGet, "/api/documents", member, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["degraded"])
	assert.Empty(t, body["items"])
	assert.NotContains(t, body, "empty", "store failure shows no create-first prompt")
	assert.Equal(t, "destructive", body["notification"].(map[string]any)["variant"])
}

func TestNavigation(t *testing.T) {
	s := newTestServer(t)
	token := s.signUpIn(t, "ana@example.com", "Ana")

	_, body := s.do(t, http.MethodGet, "/api/nav", token, nil)
	assert.Equal(t, "home", body["section"])

	rec, body := s.do(t, http.MethodPost, "/api/nav/open/trainings", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "trainings", body["section"])
	assert.Len(t, body["view"].(map[string]any)["trainings"], 4)

	rec, _ = s.do(t, http.MethodPost, "/api/nav/open/documents", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "sections open only from home")

	_, body = s.do(t, http.MethodPost, "/api/nav/back", token, nil)
	assert.Equal(t, "home", body["section"])

	rec, body = s.do(t, http.MethodPost, "/api/nav/open/documents", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, listing.EmptyCreateFirst, body["view"].(map[string]any)["empty"])

	rec, _ = s.do(t, http.MethodPost, "/api/nav/open/settings", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestContentRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.signUpIn(t, "ana@example.com", "Ana")

	_, body := s.do(t, http.MethodGet, "/api/home?q=react", token, nil)
	assert.Len(t, body["results"], 1)

	_, body = s.do(t, http.MethodGet, "/api/deliveries/templates", token, nil)
	assert.Equal(t, "Templates", body["name"])

	rec, _ := s.do(t, http.MethodGet, "/api/deliveries/nope", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/trainings", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignOutRequiresConfirmation(t *testing.T) {
	s := newTestServer(t)
	token := s.signUpIn(t, "ana@example.com", "Ana")

	rec, _ := s.do(t, http.MethodPost, "/api/auth/signout", token, map[string]bool{"confirm": false})
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/auth/signout", token, map[string]bool{"confirm": true})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminProfiles(t *testing.T) {
	s := newTestServer(t)
	admin := s.signUpIn(t, "x@admin", "Diretoria")
	member := s.signUpIn(t, "ana@example.com", "Ana")

	rec, _ := s.do(t, http.MethodGet, "/api/admin/profiles", member, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/admin/profiles", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var profiles []ProfileSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profiles))
	require.Len(t, profiles, 2)
	assert.Equal(t, "x@admin", profiles[0].Email)
}

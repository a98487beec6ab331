package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"ghibli-service/internal/auth/credentials"
	"ghibli-service/internal/auth/oauth"
	"ghibli-service/internal/auth/resolver"
	"ghibli-service/internal/catalog"
	"ghibli-service/internal/coordinator"
	"ghibli-service/internal/docstore"
	"ghibli-service/internal/favorites"
	"ghibli-service/internal/middleware"
	"ghibli-service/internal/profile"
	"ghibli-service/internal/session"

	"github.com/gin-gonic/gin"
)

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]session.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]session.Session)}
}

func (f *fakeSessionStore) Create(_ context.Context, s session.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[s.SessionID] = s
	return nil
}

func (f *fakeSessionStore) Get(_ context.Context, id string) (*session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeSessionStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	return nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalogServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/films":
			_, _ = w.Write([]byte(`[{"id":"f1","title":"Princess Mononoke","image":"https://img/f1","release_date":"1997"}]`))
		case "/people":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	}))
	t.Cleanup(catalogServer.Close)

	store := docstore.NewMemoryStore()
	identityProvider := credentials.NewService(store)
	loader := catalog.NewLoader(catalog.NewClient(catalogServer.URL, time.Second), 1)
	favs := favorites.New(store)

	coord := coordinator.New(identityProvider, loader, favs)
	coord.Init(context.Background())
	t.Cleanup(coord.Close)

	sessionStore := newFakeSessionStore()
	h := NewHandler(coord, sessionStore, profile.NewService(store), oauth.NewRegistry(), resolver.NewDocResolver(store))

	router := gin.New()
	h.RegisterRoutes(router, middleware.NewAuthMiddleware(sessionStore))
	return router
}

func doJSON(router *gin.Engine, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func waitStatus(t *testing.T, router *gin.Engine, method, path string, cookies []*http.Cookie, want int) *httptest.ResponseRecorder {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	var rec *httptest.ResponseRecorder
	for time.Now().Before(deadline) {
		rec = doJSON(router, method, path, "", cookies)
		if rec.Code == want {
			return rec
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("%s %s: status = %d, want %d (body %s)", method, path, rec.Code, want, rec.Body.String())
	return nil
}

func TestRegisterLoginLogout(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(router, http.MethodPost, "/auth/register",
		`{"email":"chihiro@bathhouse.sea","password":"haku-river","username":"sen"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status = %d, body %s", rec.Code, rec.Body.String())
	}
	cookie := sessionCookie(t, rec)

	// The profile document was created alongside the account.
	me := doJSON(router, http.MethodGet, "/api/me", "", []*http.Cookie{cookie})
	if me.Code != http.StatusOK {
		t.Fatalf("me: status = %d", me.Code)
	}
	var p profile.Profile
	if err := json.Unmarshal(me.Body.Bytes(), &p); err != nil {
		t.Fatalf("me: %v", err)
	}
	if p.Email != "chihiro@bathhouse.sea" || p.Username != "sen" {
		t.Errorf("profile = %+v", p)
	}

	// Duplicate registration conflicts.
	dup := doJSON(router, http.MethodPost, "/auth/register",
		`{"email":"chihiro@bathhouse.sea","password":"haku-river"}`, nil)
	if dup.Code != http.StatusConflict {
		t.Errorf("duplicate register: status = %d, want 409", dup.Code)
	}

	// Wrong password is a 401 with no account-existence leak.
	bad := doJSON(router, http.MethodPost, "/auth/login",
		`{"email":"chihiro@bathhouse.sea","password":"wrong"}`, nil)
	if bad.Code != http.StatusUnauthorized {
		t.Errorf("bad login: status = %d, want 401", bad.Code)
	}

	login := doJSON(router, http.MethodPost, "/auth/login",
		`{"email":"chihiro@bathhouse.sea","password":"haku-river"}`, nil)
	if login.Code != http.StatusOK {
		t.Fatalf("login: status = %d, body %s", login.Code, login.Body.String())
	}
	cookie = sessionCookie(t, login)

	// Sign-in has been recorded on the profile.
	me = doJSON(router, http.MethodGet, "/api/me", "", []*http.Cookie{cookie})
	_ = json.Unmarshal(me.Body.Bytes(), &p)
	if p.SignInCount != 1 {
		t.Errorf("sign_in_count = %d, want 1", p.SignInCount)
	}

	logout := doJSON(router, http.MethodPost, "/auth/logout", "", []*http.Cookie{cookie})
	if logout.Code != http.StatusNoContent {
		t.Errorf("logout: status = %d, want 204", logout.Code)
	}

	// The web session is gone.
	after := doJSON(router, http.MethodGet, "/api/me", "", []*http.Cookie{cookie})
	if after.Code != http.StatusUnauthorized {
		t.Errorf("me after logout: status = %d, want 401", after.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "malformed email", body: `{"email":"nope","password":"long-enough"}`, want: http.StatusBadRequest},
		{name: "weak password", body: `{"email":"a@b.com","password":"short"}`, want: http.StatusBadRequest},
		{name: "invalid json", body: `{`, want: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(router, http.MethodPost, "/auth/register", tc.body, nil)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestCatalogEndpoints(t *testing.T) {
	router := newTestRouter(t)

	// Films eventually settle with the fixture payload.
	deadline := time.Now().Add(3 * time.Second)
	for {
		rec := doJSON(router, http.MethodGet, "/api/films", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("films: status = %d", rec.Code)
		}
		var body struct {
			Items   []catalog.Film `json:"items"`
			Loading bool           `json:"loading"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("films: %v", err)
		}
		if !body.Loading {
			if len(body.Items) != 1 || body.Items[0].ID != "f1" {
				t.Fatalf("films = %+v", body.Items)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("films never settled")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// People failed upstream; the collection answers 502 while films
	// stay served.
	people := waitStatus(t, router, http.MethodGet, "/api/people", nil, http.StatusBadGateway)
	if !strings.Contains(people.Body.String(), "error") {
		t.Errorf("people body = %s", people.Body.String())
	}

	film := doJSON(router, http.MethodGet, "/api/films/f1", "", nil)
	if film.Code != http.StatusOK {
		t.Errorf("film: status = %d", film.Code)
	}
	missing := doJSON(router, http.MethodGet, "/api/films/nope", "", nil)
	if missing.Code != http.StatusNotFound {
		t.Errorf("missing film: status = %d, want 404", missing.Code)
	}
}

func TestFavoritesFlow(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(router, http.MethodPost, "/auth/register",
		`{"email":"a@b.com","password":"long-enough"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status = %d", rec.Code)
	}
	cookie := sessionCookie(t, rec)
	cookies := []*http.Cookie{cookie}

	// Unauthenticated favorites access is rejected.
	if anon := doJSON(router, http.MethodGet, "/api/favorites", "", nil); anon.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous favorites: status = %d, want 401", anon.Code)
	}

	// Adding waits out both the catalog load and the session reaching
	// the synchronizer.
	waitStatus(t, router, http.MethodPut, "/api/favorites/f1", cookies, http.StatusOK)

	unknown := doJSON(router, http.MethodPut, "/api/favorites/ghost", "", cookies)
	if unknown.Code != http.StatusNotFound {
		t.Errorf("unknown film favorite: status = %d, want 404", unknown.Code)
	}

	list := doJSON(router, http.MethodGet, "/api/favorites", "", cookies)
	var body struct {
		IDs   []string       `json:"ids"`
		Films []catalog.Film `json:"films"`
	}
	if err := json.Unmarshal(list.Body.Bytes(), &body); err != nil {
		t.Fatalf("favorites: %v", err)
	}
	if len(body.IDs) != 1 || body.IDs[0] != "f1" {
		t.Fatalf("favorite ids = %v, want [f1]", body.IDs)
	}
	if len(body.Films) != 1 || body.Films[0].Title != "Princess Mononoke" {
		t.Fatalf("favorite films = %+v", body.Films)
	}

	del := doJSON(router, http.MethodDelete, "/api/favorites/f1", "", cookies)
	if del.Code != http.StatusNoContent {
		t.Fatalf("delete favorite: status = %d, want 204", del.Code)
	}

	list = doJSON(router, http.MethodGet, "/api/favorites", "", cookies)
	_ = json.Unmarshal(list.Body.Bytes(), &body)
	if len(body.IDs) != 0 {
		t.Errorf("favorite ids after delete = %v, want empty", body.IDs)
	}
}

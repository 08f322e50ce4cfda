package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alunodb/roster-be/internal/auth"
	"github.com/alunodb/roster-be/internal/database"
	"github.com/alunodb/roster-be/internal/services"
	"github.com/alunodb/roster-be/internal/web"
)

type testApp struct {
	router   *chi.Mux
	db       *sqlx.DB
	students *services.StudentService
	users    *services.UserService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })

	users := services.NewUserService(db)
	students := services.NewStudentService(db)
	sessions := auth.NewSessions("test-secret", time.Hour)

	render, err := web.NewRenderer()
	require.NoError(t, err)

	return &testApp{
		router:   NewRouter(db, sessions, users, students, render),
		db:       db,
		students: students,
		users:    users,
	}
}

func (a *testApp) postForm(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// login authenticates and returns the issued session cookie.
func (a *testApp) login(t *testing.T, username, password string) *http.Cookie {
	t.Helper()
	w := a.postForm("/login", url.Values{"username": {username}, "password": {password}}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/", w.Result().Header.Get("Location"))
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatal("login response carried no session cookie")
	return nil
}

func TestAnonymousIsRedirectedToLogin(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/adicionar", "/logout", "/1/editar"} {
		w := app.get(path, nil)
		assert.Equal(t, http.StatusSeeOther, w.Code, path)
		assert.Equal(t, "/login", w.Result().Header.Get("Location"), path)
	}

	w := app.postForm("/1/deletar", nil, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Result().Header.Get("Location"))
}

func TestSignupAndLogin(t *testing.T) {
	app := newTestApp(t)

	w := app.postForm("/criar-conta", url.Values{"username": {"alice"}, "password": {"s3cret"}}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Result().Header.Get("Location"))

	t.Run("duplicate username bounces back to the form", func(t *testing.T) {
		w := app.postForm("/criar-conta", url.Values{"username": {"alice"}, "password": {"outra"}}, nil)
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/criar-conta", w.Result().Header.Get("Location"))
	})

	t.Run("wrong password does not issue a session", func(t *testing.T) {
		w := app.postForm("/login", url.Values{"username": {"alice"}, "password": {"wrong"}}, nil)
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Result().Header.Get("Location"))
		for _, c := range w.Result().Cookies() {
			assert.NotEqual(t, auth.CookieName, c.Name)
		}
	})

	t.Run("signup cannot mint an admin", func(t *testing.T) {
		w := app.postForm("/criar-conta", url.Values{
			"username": {"mallory"},
			"password": {"senha"},
			"is_admin": {"1"}, // ignored on purpose
		}, nil)
		require.Equal(t, http.StatusSeeOther, w.Code)

		user, err := app.users.Authenticate("mallory", "senha")
		require.NoError(t, err)
		assert.False(t, user.IsAdmin)
	})

	cookie := app.login(t, "alice", "s3cret")
	assert.NotEmpty(t, cookie.Value)
}

func TestStudentCRUDFlow(t *testing.T) {
	app := newTestApp(t)
	_, err := app.users.CreateAccount("staff", "senha", false)
	require.NoError(t, err)
	cookie := app.login(t, "staff", "senha")

	w := app.postForm("/adicionar", url.Values{
		"nome":     {"Maria Oliveira"},
		"email":    {"maria@email.com"},
		"telefone": {"(11) 98765-4322"},
		"curso":    {"Ciência da Computação"},
	}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/", w.Result().Header.Get("Location"))

	t.Run("detail page renders", func(t *testing.T) {
		w := app.get("/1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Maria Oliveira")
	})

	t.Run("missing student is 404", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, app.get("/999", nil).Code)
		assert.Equal(t, http.StatusNotFound, app.get("/abc", nil).Code)
	})

	t.Run("validation failure bounces back with no write", func(t *testing.T) {
		w := app.postForm("/adicionar", url.Values{"nome": {""}, "email": {""}}, cookie)
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/adicionar", w.Result().Header.Get("Location"))

		students, err := app.students.List("")
		require.NoError(t, err)
		assert.Len(t, students, 1)
	})

	t.Run("edit updates the record", func(t *testing.T) {
		w := app.postForm("/1/editar", url.Values{
			"nome":  {"Maria O. Santos"},
			"email": {"maria.santos@email.com"},
		}, cookie)
		require.Equal(t, http.StatusSeeOther, w.Code)

		student, err := app.students.Get(1)
		require.NoError(t, err)
		assert.Equal(t, "Maria O. Santos", student.Nome)
	})
}

func TestDeleteRequiresAdmin(t *testing.T) {
	app := newTestApp(t)
	_, err := app.users.CreateAccount("staff", "senha", false)
	require.NoError(t, err)
	_, err = app.users.CreateAccount("chefe", "senha", true)
	require.NoError(t, err)

	id, err := app.students.Create("Maria Oliveira", "maria@email.com", "", "")
	require.NoError(t, err)

	t.Run("non-admin gets 403 and the row survives", func(t *testing.T) {
		cookie := app.login(t, "staff", "senha")
		w := app.postForm("/1/deletar", nil, cookie)
		assert.Equal(t, http.StatusForbidden, w.Code)

		_, err := app.students.Get(id)
		assert.NoError(t, err)
	})

	t.Run("admin deletes and the row is gone", func(t *testing.T) {
		cookie := app.login(t, "chefe", "senha")
		w := app.postForm("/1/deletar", nil, cookie)
		require.Equal(t, http.StatusSeeOther, w.Code)

		_, err := app.students.Get(id)
		assert.ErrorIs(t, err, services.ErrNotFound)

		t.Run("deleting again is 404", func(t *testing.T) {
			w := app.postForm("/1/deletar", nil, cookie)
			assert.Equal(t, http.StatusNotFound, w.Code)
		})
	})
}

func TestStatsEndpoints(t *testing.T) {
	app := newTestApp(t)
	for _, s := range []struct{ nome, curso string }{
		{"A", "Engenharia de Software"},
		{"B", "Engenharia de Software"},
		{"C", "Engenharia de Software"},
		{"D", "Ciência da Computação"},
		{"E", "Ciência da Computação"},
		{"F", ""},
	} {
		_, err := app.students.Create(s.nome, s.nome+"@email.com", "", s.curso)
		require.NoError(t, err)
	}

	t.Run("HTML page", func(t *testing.T) {
		w := app.get("/estatisticas", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Engenharia de Software")
		assert.Contains(t, w.Body.String(), services.CourseLabelEmpty)
	})

	t.Run("JSON chart data", func(t *testing.T) {
		w := app.get("/api/estatisticas", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var payload struct {
			Labels []string `json:"labels"`
			Counts []int    `json:"counts"`
			Total  int      `json:"total"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
		assert.Equal(t, 6, payload.Total)
		require.Len(t, payload.Labels, 3)
		assert.Equal(t, "Engenharia de Software", payload.Labels[0])
		assert.Equal(t, []int{3, 2, 1}, payload.Counts)
	})
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)
	w := app.get("/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestSearchOnIndex(t *testing.T) {
	app := newTestApp(t)
	_, err := app.students.Create("Maria Oliveira", "maria@email.com", "", "Ciência da Computação")
	require.NoError(t, err)
	_, err = app.students.Create("João Silva", "joao@email.com", "", "Engenharia de Software")
	require.NoError(t, err)

	w := app.get("/?search=maria", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Maria Oliveira")
	assert.NotContains(t, w.Body.String(), "João Silva")
}

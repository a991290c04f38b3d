package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/kelas-backend/internal/config"
	"github.com/stemsi/kelas-backend/internal/handler"
	"github.com/stemsi/kelas-backend/internal/middleware"
	"github.com/stemsi/kelas-backend/internal/model"
	"github.com/stemsi/kelas-backend/internal/repository"
	"github.com/stemsi/kelas-backend/internal/response"
	"github.com/stemsi/kelas-backend/internal/service"
	"github.com/stemsi/kelas-backend/internal/service/mocks"
)

var (
	adminUser   = &model.User{ID: 1, Name: "Admin", Email: "admin@example.com", Role: model.RoleAdmin}
	studentUser = &model.User{ID: 2, Name: "Alice", Email: "alice@example.com", Role: model.RoleStudent}
	otherUser   = &model.User{ID: 3, Name: "Bob", Email: "bob@example.com", Role: model.RoleStudent}
	allClasses  = []model.Class{{ID: 1, Name: "Matematika"}, {ID: 2, Name: "Fisika"}}
)

type fakeHealth map[string]string

func (f fakeHealth) Check(context.Context) map[string]string { return f }

type noSubscriber struct{}

func (noSubscriber) Subscribe(context.Context, int) *redis.PubSub { return nil }

type harness struct {
	users       *mocks.MockUserRepository
	classes     *mocks.MockClassRepository
	assignments *mocks.MockAssignmentRepository
	sessions    *mocks.MockSessionStore
	cache       *mocks.MockClassCache
	activity    *mocks.MockActivityPublisher
	auth        *service.AuthService
	router      *gin.Engine
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg := &config.Config{
		GinMode:           gin.TestMode,
		SecretKey:         "test-secret",
		SessionExpiry:     time.Hour,
		SessionCookieName: "kelas_session",
		BcryptCost:        4,
	}
	h := &harness{
		users:       new(mocks.MockUserRepository),
		classes:     new(mocks.MockClassRepository),
		assignments: new(mocks.MockAssignmentRepository),
		sessions:    new(mocks.MockSessionStore),
		cache:       new(mocks.MockClassCache),
		activity:    new(mocks.MockActivityPublisher),
	}
	log := zerolog.Nop()

	h.auth = service.NewAuthService(cfg, h.sessions)
	userService := service.NewUserService(h.users, cfg.BcryptCost)
	assignmentService := service.NewAssignmentService(h.assignments, h.classes, h.activity, log)
	classService := service.NewClassService(h.classes, assignmentService, h.cache, h.activity, log)

	handlers := &Handlers{
		Auth:       handler.NewAuthHandler(h.auth, userService, handler.CookieConfig{Name: cfg.SessionCookieName}),
		Class:      handler.NewClassHandler(classService),
		Assignment: handler.NewAssignmentHandler(assignmentService, classService),
		WS:         handler.NewWSHandler(classService, noSubscriber{}, log, nil),
	}
	authn := middleware.NewAuthenticator(h.auth, userService, cfg.SessionCookieName)
	h.router = SetupRouter(authn, handlers, fakeHealth{"postgres": "ok", "redis": "ok"}, cfg, log)

	h.cache.On("Get", mock.Anything).Return(allClasses, true, nil).Maybe()
	h.cache.On("Invalidate", mock.Anything).Return(nil).Maybe()
	h.activity.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()
	h.sessions.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return h
}

// loginAs opens a session for user and returns its bearer token.
func (h *harness) loginAs(t *testing.T, user *model.User) string {
	t.Helper()
	token, err := h.auth.IssueSession(context.Background(), user)
	require.NoError(t, err)
	claims, err := h.auth.ValidateToken(token)
	require.NoError(t, err)

	h.sessions.On("Lookup", mock.Anything, claims.ID).Return(user.ID, nil)
	h.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	return token
}

func (h *harness) do(method, target, token string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) doJSON(method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) (map[string]interface{}, *response.ErrorBody) {
	t.Helper()
	var body struct {
		Data  map[string]interface{} `json:"data"`
		Error *response.ErrorBody    `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body.Data, body.Error
}

func TestHealth(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(response.HeaderRequestID))
}

func TestHome_Anonymous(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	data, _ := decode(t, w)
	assert.Len(t, data["classes"], 2)
	assert.Equal(t, false, data["viewer"].(map[string]interface{})["authenticated"])
}

func TestRegister(t *testing.T) {
	h := newHarness(t)
	h.users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "citra@example.com"
	})).Return(nil)
	h.users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "alice@example.com"
	})).Return(repository.ErrDuplicateEmail)

	form := url.Values{
		"name":     {"Citra"},
		"email":    {"citra@example.com"},
		"password": {"password123"},
		"ktp":      {"3201234567890001"},
	}
	w := h.do(http.MethodPost, "/register", "", form)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/register", w.Header().Get("Location"))

	w = h.doJSON(http.MethodPost, "/register", "",
		`{"name":"Alice","email":"alice@example.com","password":"password123","ktp":"3201234567890002"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	_, apiErr := decode(t, w)
	assert.Equal(t, response.ErrDuplicateUser, apiErr.Code)
	assert.Contains(t, apiErr.Fields, "email")

	w = h.doJSON(http.MethodPost, "/register", "",
		`{"name":"Citra","email":"citra@example.com","password":"password123","ktp":"3201234567890001"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "3201234567890001")
	assert.NotContains(t, w.Body.String(), `"ktp"`)
}

func TestRegister_ShortKTP(t *testing.T) {
	h := newHarness(t)

	w := h.doJSON(http.MethodPost, "/register", "",
		`{"name":"Citra","email":"citra@example.com","password":"password123","ktp":"320123456789000"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	_, apiErr := decode(t, w)
	assert.Equal(t, response.ErrValidation, apiErr.Code)
	assert.Contains(t, apiErr.Fields, "ktp")
	h.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin(t *testing.T) {
	h := newHarness(t)
	hash, err := service.HashPassword("password123", 4)
	require.NoError(t, err)
	stored := *studentUser
	stored.PasswordHash = hash
	h.users.On("GetByEmail", mock.Anything, "alice@example.com").Return(&stored, nil)
	h.users.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, repository.ErrNotFound)

	w := h.doJSON(http.MethodPost, "/login", "", `{"email":"alice@example.com","password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = h.doJSON(http.MethodPost, "/login", "", `{"email":"nobody@example.com","password":"password123"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	_, apiErr := decode(t, w)
	assert.Equal(t, response.ErrInvalidCredentials, apiErr.Code)

	w = h.doJSON(http.MethodPost, "/login", "", `{"email":"alice@example.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	data, _ := decode(t, w)
	assert.NotEmpty(t, data["token"])
	assert.NotContains(t, w.Body.String(), hash)
	assert.NotContains(t, w.Body.String(), `"ktp"`)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "kelas_session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	w = h.do(http.MethodPost, "/login", "", url.Values{"email": {"alice@example.com"}, "password": {"password123"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestLogin_PasswordOverBcryptLimit(t *testing.T) {
	h := newHarness(t)

	body := `{"email":"alice@example.com","password":"` + strings.Repeat("é", 40) + `"}`
	w := h.doJSON(http.MethodPost, "/login", "", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	_, apiErr := decode(t, w)
	assert.Equal(t, response.ErrValidation, apiErr.Code)
	assert.Contains(t, apiErr.Fields, "password")
	h.users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestLogout_RevokesSession(t *testing.T) {
	h := newHarness(t)
	token, err := h.auth.IssueSession(context.Background(), studentUser)
	require.NoError(t, err)
	claims, err := h.auth.ValidateToken(token)
	require.NoError(t, err)

	h.users.On("GetByID", mock.Anything, studentUser.ID).Return(studentUser, nil)
	h.sessions.On("Lookup", mock.Anything, claims.ID).Return(studentUser.ID, nil).Once()
	h.sessions.On("Delete", mock.Anything, claims.ID).Return(nil).Once()
	h.sessions.On("Lookup", mock.Anything, claims.ID).Return(0, repository.ErrSessionNotFound)

	w := h.do(http.MethodGet, "/logout", token, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = h.do(http.MethodGet, "/my_assignments", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	_, apiErr := decode(t, w)
	assert.Equal(t, response.ErrSessionInvalidated, apiErr.Code)
}

func TestAnonymousIsUnauthorized(t *testing.T) {
	h := newHarness(t)

	for _, target := range []string{"/my_assignments", "/submit", "/me", "/addclass", "/class/1"} {
		w := h.do(http.MethodGet, target, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, target)
	}
}

func TestAdminRoutes_ForbiddenForStudents(t *testing.T) {
	h := newHarness(t)
	token := h.loginAs(t, studentUser)

	tests := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/addclass"},
		{http.MethodPost, "/addclass"},
		{http.MethodGet, "/class/1"},
		{http.MethodPost, "/delete_class/1"},
		{http.MethodGet, "/ws/classes/1/activity"},
	}

	for _, tt := range tests {
		w := h.do(tt.method, tt.target, token, url.Values{"name": {"Kimia"}})
		assert.Equal(t, http.StatusForbidden, w.Code, tt.target)
		_, apiErr := decode(t, w)
		assert.Equal(t, response.ErrAdminAccessOnly, apiErr.Code)
	}
	h.classes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	h.classes.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestAddClass(t *testing.T) {
	h := newHarness(t)
	token := h.loginAs(t, adminUser)
	h.classes.On("Create", mock.Anything, mock.MatchedBy(func(c *model.Class) bool {
		return c.Name == "Kimia"
	})).Return(nil)

	w := h.do(http.MethodPost, "/addclass", token, url.Values{"name": {"Kimia"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/classes", w.Header().Get("Location"))

	w = h.doJSON(http.MethodPost, "/addclass", token, `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClassDetail(t *testing.T) {
	h := newHarness(t)
	token := h.loginAs(t, adminUser)
	h.classes.On("GetByID", mock.Anything, 1).Return(&allClasses[0], nil)
	h.classes.On("GetByID", mock.Anything, 99).Return(nil, repository.ErrNotFound)
	h.assignments.On("ListByClass", mock.Anything, 1).Return([]model.Assignment{
		{ID: 1, ClassID: 1, StudentName: "Alice", URL: "https://example.com/1"},
		{ID: 2, ClassID: 1, StudentName: "Bob", URL: "https://example.com/2"},
		{ID: 3, ClassID: 1, StudentName: "Alice", URL: "https://example.com/3"},
	}, nil)

	w := h.do(http.MethodGet, "/class/1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	data, _ := decode(t, w)
	assert.Equal(t, float64(2), data["max_urls_per_student"])
	students := data["students"].([]interface{})
	require.Len(t, students, 2)
	assert.Equal(t, "Alice", students[0].(map[string]interface{})["name"])
	assert.Len(t, students[0].(map[string]interface{})["urls"], 2)

	w = h.do(http.MethodGet, "/class/99", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(http.MethodGet, "/class/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	_, apiErr := decode(t, w)
	assert.Equal(t, response.ErrInvalidID, apiErr.Code)
}

func TestDeleteClass(t *testing.T) {
	h := newHarness(t)
	token := h.loginAs(t, adminUser)
	h.classes.On("Delete", mock.Anything, 1).Return(nil)
	h.classes.On("Delete", mock.Anything, 99).Return(repository.ErrNotFound)

	w := h.do(http.MethodPost, "/delete_class/1", token, url.Values{})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/classes", w.Header().Get("Location"))

	w = h.doJSON(http.MethodPost, "/delete_class/99", token, `{}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitAssignment(t *testing.T) {
	h := newHarness(t)
	token := h.loginAs(t, studentUser)
	h.classes.On("GetByID", mock.Anything, 1).Return(&allClasses[0], nil)
	h.classes.On("GetByID", mock.Anything, 99).Return(nil, repository.ErrNotFound)
	h.assignments.On("Create", mock.Anything, mock.MatchedBy(func(a *model.Assignment) bool {
		return a.StudentName == "Alice" && a.OwnedBy(studentUser.ID)
	})).Return(nil)

	w := h.do(http.MethodPost, "/submit", token, url.Values{"class_id": {"1"}, "url": {"https://example.com/tugas"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/submit", w.Header().Get("Location"))

	w = h.doJSON(http.MethodPost, "/submit", token, `{"class_id":1,"url":"not a url"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.doJSON(http.MethodPost, "/submit", token, `{"class_id":99,"url":"https://example.com/tugas"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateAssignment_Ownership(t *testing.T) {
	h := newHarness(t)
	aliceToken := h.loginAs(t, studentUser)
	bobToken := h.loginAs(t, otherUser)

	studentID := studentUser.ID
	h.assignments.On("GetByID", mock.Anything, 10).Return(&model.Assignment{
		ID: 10, ClassID: 1, StudentID: &studentID, URL: "https://example.com/old", StudentName: "Alice",
	}, nil)
	h.assignments.On("GetByID", mock.Anything, 404).Return(nil, repository.ErrNotFound)
	h.assignments.On("UpdateURL", mock.Anything, mock.Anything).Return(nil)

	w := h.doJSON(http.MethodPost, "/update_assignment/10", bobToken, `{"url":"not a url"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	_, apiErr := decode(t, w)
	assert.Equal(t, response.ErrNotOwner, apiErr.Code)

	w = h.doJSON(http.MethodPost, "/update_assignment/404", aliceToken, `{"url":"not a url"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.doJSON(http.MethodPost, "/update_assignment/10", aliceToken, `{"url":"not a url"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unreadable bodies still report a missing or foreign assignment first.
	w = h.doJSON(http.MethodPost, "/update_assignment/404", aliceToken, ``)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.doJSON(http.MethodPost, "/update_assignment/10", bobToken, `{"url":`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = h.doJSON(http.MethodPost, "/update_assignment/10", aliceToken, `{"url":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	_, apiErr = decode(t, w)
	assert.Equal(t, response.ErrValidation, apiErr.Code)
	assert.Contains(t, apiErr.Fields, "url")

	w = h.do(http.MethodPost, "/update_assignment/10", aliceToken, url.Values{"url": {"https://example.com/new"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/my_assignments", w.Header().Get("Location"))
}

func TestDeleteAssignment(t *testing.T) {
	h := newHarness(t)
	aliceToken := h.loginAs(t, studentUser)
	bobToken := h.loginAs(t, otherUser)

	studentID := studentUser.ID
	h.assignments.On("GetByID", mock.Anything, 10).Return(&model.Assignment{
		ID: 10, ClassID: 1, StudentID: &studentID, StudentName: "Alice",
	}, nil)
	h.assignments.On("Delete", mock.Anything, 10).Return(nil).Once()

	w := h.do(http.MethodPost, "/delete_assignment/10", bobToken, url.Values{})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = h.do(http.MethodPost, "/delete_assignment/10", aliceToken, url.Values{})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	h.assignments.AssertExpectations(t)
}

func TestMyAssignments(t *testing.T) {
	h := newHarness(t)
	token := h.loginAs(t, studentUser)
	studentID := studentUser.ID
	h.assignments.On("ListByStudent", mock.Anything, studentUser.ID).Return([]model.Assignment{
		{ID: 10, ClassID: 1, StudentID: &studentID, URL: "https://example.com/a", StudentName: "Alice"},
	}, nil)

	w := h.do(http.MethodGet, "/my_assignments", token, nil)

	require.Equal(t, http.StatusOK, w.Code)
	data, _ := decode(t, w)
	assert.Len(t, data["assignments"], 1)
}

func TestActivityStream_UnknownClass(t *testing.T) {
	h := newHarness(t)
	token := h.loginAs(t, adminUser)
	h.classes.On("GetByID", mock.Anything, 99).Return(nil, repository.ErrNotFound)

	w := h.do(http.MethodGet, "/ws/classes/99/activity?token="+token, "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

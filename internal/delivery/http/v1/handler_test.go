package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-daily-todo/internal/services"
	"github.com/adanyl0v/go-daily-todo/internal/storage/memory"
)

const (
	testIssuer = "go-daily-todo-test"
	// httptest.NewRequest uses 192.0.2.1 as the remote address and sends no user agent.
	testFingerprint = `{"client_ip":"192.0.2.1","user_agent":""}`
)

var (
	testSigningKey = []byte("test-signing-key")
	testToday      = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
)

type testServer struct {
	router *gin.Engine
	store  *memory.Storage
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.New()
	logger := zerolog.Nop()
	calendar := services.NewFixedCalendar(testToday)

	router := gin.New()
	RegisterRoutes(router, New(
		logger,
		services.NewAuthService(logger, store, store, testIssuer, testSigningKey, time.Minute, time.Hour),
		services.NewSessionService(logger, store),
		services.NewTaskService(logger, store, calendar),
		calendar,
	))

	return &testServer{router: router, store: store}
}

type testRequest struct {
	method  string
	path    string
	body    string
	token   string
	cookies []*http.Cookie
}

func (s *testServer) do(req testRequest) *httptest.ResponseRecorder {
	r := httptest.NewRequest(req.method, req.path, strings.NewReader(req.body))
	if req.body != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	if req.token != "" {
		r.Header.Set("Authorization", "Bearer "+req.token)
	}
	for _, cookie := range req.cookies {
		r.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, r)
	return w
}

func (s *testServer) mustLogin(t *testing.T, username, password string) tokensResponse {
	t.Helper()

	body := `{"username":"` + username + `","password":"` + password + `"}`
	w := s.do(testRequest{method: http.MethodPost, path: "/api/v1/auth/register", body: body})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: status=%d body=%s", w.Code, w.Body.String())
	}

	w = s.do(testRequest{method: http.MethodPost, path: "/api/v1/auth/login", body: body})
	if w.Code != http.StatusOK {
		t.Fatalf("login: status=%d body=%s", w.Code, w.Body.String())
	}

	var tokens tokensResponse
	decode(t, w, &tokens)
	return tokens
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()

	err := json.Unmarshal(w.Body.Bytes(), v)
	if err != nil {
		t.Fatalf("failed to decode body %q: %v", w.Body.String(), err)
	}
}

func responseCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestHandleRegister(t *testing.T) {
	s := newTestServer(t)

	w := s.do(testRequest{
		method: http.MethodPost,
		path:   "/api/v1/auth/register",
		body:   `{"username":"alice","password":"pw"}`,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var user userResponse
	decode(t, w, &user)
	if user.ID == 0 || user.Username != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}

	w = s.do(testRequest{
		method: http.MethodPost,
		path:   "/api/v1/auth/register",
		body:   `{"username":"alice","password":"pw2"}`,
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	w = s.do(testRequest{
		method: http.MethodPost,
		path:   "/api/v1/auth/register",
		body:   `{"username":"bob"}`,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestHandleLogin(t *testing.T) {
	s := newTestServer(t)
	tokens := s.mustLogin(t, "alice", "pw")
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatalf("expected tokens, got %+v", tokens)
	}

	w := s.do(testRequest{
		method: http.MethodPost,
		path:   "/api/v1/auth/login",
		body:   `{"username":"alice","password":"pw"}`,
	})
	if responseCookie(w, accessTokenCookie) == nil || responseCookie(w, refreshTokenCookie) == nil {
		t.Fatalf("expected token cookies, got %v", w.Result().Cookies())
	}

	w = s.do(testRequest{
		method: http.MethodPost,
		path:   "/api/v1/auth/login",
		body:   `{"username":"alice","password":"wrong"}`,
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	w = s.do(testRequest{
		method: http.MethodPost,
		path:   "/api/v1/auth/login",
		body:   `{"username":"nobody","password":"pw"}`,
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestHandleAuthMiddleware_Rejects(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		req  testRequest
	}{
		{
			name: "no token",
			req:  testRequest{method: http.MethodGet, path: "/api/v1/tasks/today"},
		},
		{
			name: "garbage token",
			req:  testRequest{method: http.MethodGet, path: "/api/v1/tasks/today", token: "garbage"},
		},
		{
			name: "garbage cookie",
			req: testRequest{
				method:  http.MethodGet,
				path:    "/api/v1/tasks/today",
				cookies: []*http.Cookie{{Name: accessTokenCookie, Value: "garbage"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(tt.req)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
			}
		})
	}
}

func TestHandleAuthMiddleware_AcceptsCookie(t *testing.T) {
	s := newTestServer(t)
	tokens := s.mustLogin(t, "alice", "pw")

	w := s.do(testRequest{
		method:  http.MethodGet,
		path:    "/api/v1/auth/me",
		cookies: []*http.Cookie{{Name: accessTokenCookie, Value: tokens.AccessToken}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var user userResponse
	decode(t, w, &user)
	if user.ID != tokens.UserID || user.Username != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestHandleAuthMiddleware_RefreshesExpiredToken(t *testing.T) {
	s := newTestServer(t)

	expiring := services.NewAuthService(
		zerolog.Nop(), s.store, s.store, testIssuer, testSigningKey, -time.Minute, time.Hour,
	)
	_, err := expiring.Register(context.Background(), services.RegisterParams{Username: "alice", Password: "pw"})
	if err != nil {
		t.Fatalf("failed to prepare user: %v", err)
	}
	login, err := expiring.Login(context.Background(), services.LoginParams{
		Username:    "alice",
		Password:    "pw",
		Fingerprint: testFingerprint,
	})
	if err != nil {
		t.Fatalf("failed to prepare session: %v", err)
	}

	w := s.do(testRequest{
		method:  http.MethodGet,
		path:    "/api/v1/auth/me",
		token:   login.AccessToken,
		cookies: []*http.Cookie{{Name: refreshTokenCookie, Value: login.RefreshToken}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	refreshed := responseCookie(w, refreshTokenCookie)
	if refreshed == nil || refreshed.Value == login.RefreshToken {
		t.Fatalf("expected a rotated refresh token cookie, got %v", refreshed)
	}

	w = s.do(testRequest{method: http.MethodGet, path: "/api/v1/auth/me", token: login.AccessToken})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expired token without refresh cookie: status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestHandleRefresh(t *testing.T) {
	s := newTestServer(t)
	tokens := s.mustLogin(t, "alice", "pw")

	w := s.do(testRequest{method: http.MethodPost, path: "/api/v1/auth/refresh"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	w = s.do(testRequest{
		method:  http.MethodPost,
		path:    "/api/v1/auth/refresh",
		cookies: []*http.Cookie{{Name: refreshTokenCookie, Value: tokens.RefreshToken}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var refreshed tokensResponse
	decode(t, w, &refreshed)
	if refreshed.RefreshToken == tokens.RefreshToken {
		t.Fatalf("expected refresh token to rotate")
	}

	w = s.do(testRequest{
		method: http.MethodPost,
		path:   "/api/v1/auth/refresh",
		body:   `{"refresh_token":"` + tokens.RefreshToken + `"}`,
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("reused token: status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestHandleLogout(t *testing.T) {
	s := newTestServer(t)
	tokens := s.mustLogin(t, "alice", "pw")

	w := s.do(testRequest{method: http.MethodPost, path: "/api/v1/auth/logout", token: tokens.AccessToken})
	if w.Code != http.StatusNoContent {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	w = s.do(testRequest{method: http.MethodGet, path: "/api/v1/tasks/today", token: tokens.AccessToken})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestTaskHandlers(t *testing.T) {
	s := newTestServer(t)
	tokens := s.mustLogin(t, "alice", "pw")

	w := s.do(testRequest{
		method: http.MethodPost,
		path:   "/api/v1/tasks",
		token:  tokens.AccessToken,
		body:   `{"title":"Buy milk","deadline":"2024-01-15"}`,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status=%d body=%s", w.Code, w.Body.String())
	}
	var task taskResponse
	decode(t, w, &task)
	if task.Title != "Buy milk" || task.Completed || task.CreatedDate != "2024-01-15" {
		t.Fatalf("unexpected task: %+v", task)
	}
	if task.Deadline == nil || *task.Deadline != "2024-01-15" {
		t.Fatalf("unexpected deadline: %v", task.Deadline)
	}
	taskPath := "/api/v1/tasks/" + strconv.FormatInt(task.ID, 10)

	w = s.do(testRequest{
		method: http.MethodPost,
		path:   "/api/v1/tasks",
		token:  tokens.AccessToken,
		body:   `{"title":"Pour it","parent_id":` + strconv.FormatInt(task.ID, 10) + `}`,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create subtask: status=%d body=%s", w.Code, w.Body.String())
	}

	w = s.do(testRequest{method: http.MethodGet, path: "/api/v1/tasks/today", token: tokens.AccessToken})
	if w.Code != http.StatusOK {
		t.Fatalf("today: status=%d body=%s", w.Code, w.Body.String())
	}
	var view dailyViewResponse
	decode(t, w, &view)
	if view.Date != "2024-01-15" || len(view.Incomplete) != 1 || len(view.Completed) != 0 {
		t.Fatalf("unexpected daily view: %+v", view)
	}
	if len(view.Incomplete[0].Subtasks) != 1 || view.Incomplete[0].SubtaskCount != 1 {
		t.Fatalf("expected one subtask, got %+v", view.Incomplete[0])
	}

	w = s.do(testRequest{
		method: http.MethodPatch,
		path:   taskPath,
		token:  tokens.AccessToken,
		body:   `{"description":"2 litres"}`,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update: status=%d body=%s", w.Code, w.Body.String())
	}
	decode(t, w, &task)
	if task.Description != "2 litres" || task.Title != "Buy milk" {
		t.Fatalf("unexpected updated task: %+v", task)
	}

	w = s.do(testRequest{method: http.MethodPost, path: taskPath + "/toggle", token: tokens.AccessToken})
	if w.Code != http.StatusOK {
		t.Fatalf("toggle: status=%d body=%s", w.Code, w.Body.String())
	}
	var toggled toggleTaskResponse
	decode(t, w, &toggled)
	if toggled.ID != task.ID || !toggled.Completed {
		t.Fatalf("unexpected toggle response: %+v", toggled)
	}

	w = s.do(testRequest{method: http.MethodDelete, path: taskPath, token: tokens.AccessToken})
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status=%d body=%s", w.Code, w.Body.String())
	}

	w = s.do(testRequest{method: http.MethodGet, path: taskPath, token: tokens.AccessToken})
	if w.Code != http.StatusNotFound {
		t.Fatalf("get deleted: status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestTaskHandlers_Errors(t *testing.T) {
	s := newTestServer(t)
	alice := s.mustLogin(t, "alice", "pw")
	bob := s.mustLogin(t, "bob", "pw")

	w := s.do(testRequest{
		method: http.MethodPost,
		path:   "/api/v1/tasks",
		token:  bob.AccessToken,
		body:   `{"title":"bob's"}`,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status=%d body=%s", w.Code, w.Body.String())
	}
	var bobs taskResponse
	decode(t, w, &bobs)
	bobsPath := "/api/v1/tasks/" + strconv.FormatInt(bobs.ID, 10)

	tests := []struct {
		name string
		req  testRequest
		want int
	}{
		{
			name: "blank title",
			req:  testRequest{method: http.MethodPost, path: "/api/v1/tasks", body: `{"title":"  "}`},
			want: http.StatusBadRequest,
		},
		{
			name: "bad deadline",
			req:  testRequest{method: http.MethodPost, path: "/api/v1/tasks", body: `{"title":"x","deadline":"01/15/2024"}`},
			want: http.StatusBadRequest,
		},
		{
			name: "foreign parent",
			req: testRequest{
				method: http.MethodPost,
				path:   "/api/v1/tasks",
				body:   `{"title":"x","parent_id":` + strconv.FormatInt(bobs.ID, 10) + `}`,
			},
			want: http.StatusBadRequest,
		},
		{
			name: "malformed id",
			req:  testRequest{method: http.MethodGet, path: "/api/v1/tasks/abc"},
			want: http.StatusBadRequest,
		},
		{
			name: "view foreign task",
			req:  testRequest{method: http.MethodGet, path: bobsPath},
			want: http.StatusNotFound,
		},
		{
			name: "toggle foreign task",
			req:  testRequest{method: http.MethodPost, path: bobsPath + "/toggle"},
			want: http.StatusNotFound,
		},
		{
			name: "delete foreign task",
			req:  testRequest{method: http.MethodDelete, path: bobsPath},
			want: http.StatusNotFound,
		},
		{
			name: "malformed carry-over body",
			req:  testRequest{method: http.MethodPost, path: "/api/v1/tasks/carry-over", body: `{"task_ids":"1"}`},
			want: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.token = alice.AccessToken
			w := s.do(tt.req)
			if w.Code != tt.want {
				t.Fatalf("status=%d want=%d body=%s", w.Code, tt.want, w.Body.String())
			}
		})
	}

	w = s.do(testRequest{method: http.MethodGet, path: bobsPath, token: bob.AccessToken})
	if w.Code != http.StatusOK {
		t.Fatalf("bob's task should survive: status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestHandleCarryOver(t *testing.T) {
	s := newTestServer(t)
	tokens := s.mustLogin(t, "alice", "pw")

	yesterday := services.NewTaskService(zerolog.Nop(), s.store, services.NewFixedCalendar(testToday.AddDate(0, 0, -1)))
	stale, err := yesterday.CreateTask(context.Background(), services.CreateTaskParams{
		UserID: tokens.UserID,
		Title:  "stale",
	})
	if err != nil {
		t.Fatalf("failed to prepare task: %v", err)
	}

	w := s.do(testRequest{method: http.MethodGet, path: "/api/v1/tasks/today", token: tokens.AccessToken})
	var view dailyViewResponse
	decode(t, w, &view)
	if len(view.CarryOver) != 1 || view.CarryOver[0].ID != stale.ID {
		t.Fatalf("expected stale task as candidate, got %+v", view.CarryOver)
	}

	body := `{"task_ids":[` + strconv.FormatInt(stale.ID, 10) + `,999]}`
	w = s.do(testRequest{method: http.MethodPost, path: "/api/v1/tasks/carry-over", token: tokens.AccessToken, body: body})
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Success     bool `json:"success"`
		CarriedOver int  `json:"carried_over"`
	}
	decode(t, w, &resp)
	if !resp.Success || resp.CarriedOver != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}

	w = s.do(testRequest{method: http.MethodGet, path: "/api/v1/tasks/today", token: tokens.AccessToken})
	view = dailyViewResponse{}
	decode(t, w, &view)
	if len(view.CarryOver) != 0 || len(view.Incomplete) != 1 || view.Incomplete[0].ID != stale.ID {
		t.Fatalf("expected task moved to today, got %+v", view)
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(testRequest{method: http.MethodGet, path: "/healthz"})
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

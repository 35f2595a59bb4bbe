package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rbt-academy/trainer/internal/api"
	"github.com/rbt-academy/trainer/internal/api/apierr"
	"github.com/rbt-academy/trainer/internal/api/response"
	"github.com/rbt-academy/trainer/internal/factory"
	"github.com/rbt-academy/trainer/internal/model"
	"github.com/rbt-academy/trainer/internal/services/stats"
	"github.com/rbt-academy/trainer/internal/testutil"
)

// testServer wires the router over a TestApp
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	router := api.NewRouter(api.RouterConfig{
		Logger:         testutil.NopLogger(),
		AccountService: app.AccountService,
		StatsService:   app.StatsService,
		AdminService:   app.AdminService,
		Catalog:        app.Catalog,
		Guard:          app.Guard,
		Hub:            app.Hub,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) login(t *testing.T, name, password string) response.Identity {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/session/login", map[string]string{
		"name":     name,
		"store":    "Mishkino",
		"password": password,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var id response.Identity
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &id))
	return id
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error.Code
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))

	var health response.Health
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.True(t, health.JudgeAvailable)

	ts.app.MockJudge.Unavailable = true
	rr = ts.request(http.MethodGet, "/api/v1/health", nil)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &health))
	assert.False(t, health.JudgeAvailable)
}

func TestRequestIDHeader(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestLoginOptions(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/session/options", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var opts response.Options
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &opts))
	assert.Equal(t, model.Stores, opts.Stores)
	assert.Equal(t, []string{"Neutral", "Irritated", "Doubtful"}, opts.Moods)
}

func TestLoginAndMe(t *testing.T) {
	ts := newTestServer(t)

	id := ts.login(t, "Anna", "pw")
	assert.Equal(t, "Anna", id.Profile.Name)
	assert.Equal(t, "Mishkino", id.Profile.Store)
	assert.False(t, id.IsAdmin)

	rr := ts.request(http.MethodGet, "/api/v1/session/me", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var me response.Identity
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &me))
	assert.Equal(t, "Anna", me.Profile.Name)
	assert.Equal(t, model.DefaultAvatar, me.Avatar)
}

func TestLoginValidation(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/session/login", map[string]string{"name": "Anna"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeMissingCredentials, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/session/login", map[string]string{"name": "Admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeInvalidCredentials, errorCode(t, rr))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/session/login", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, errorCode(t, rec))
}

func TestUnauthenticatedRoutes(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/api/v1/session/me", "/api/v1/dashboard", "/api/v1/leaderboard", "/api/v1/exercises"} {
		rr := ts.request(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}

	rr := ts.request(http.MethodGet, "/api/v1/admin/users", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLogoutNeedsConfirmation(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t, "Anna", "pw")

	rr := ts.request(http.MethodPost, "/api/v1/session/logout", map[string]bool{"confirm": false})
	assert.Equal(t, http.StatusPreconditionRequired, rr.Code)
	assert.Equal(t, http.StatusOK, ts.request(http.MethodGet, "/api/v1/session/me", nil).Code)

	rr = ts.request(http.MethodPost, "/api/v1/session/logout", map[string]bool{"confirm": true})
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, http.StatusUnauthorized, ts.request(http.MethodGet, "/api/v1/session/me", nil).Code)
}

func TestSetAvatar(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t, "Anna", "pw")

	rr := ts.request(http.MethodPut, "/api/v1/session/avatar", map[string]string{"avatar": "Orbit"})
	require.Equal(t, http.StatusOK, rr.Code)

	var id response.Identity
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &id))
	assert.Equal(t, "Orbit", id.Avatar)

	entry, ok := ts.app.Registry.Get(t.Context(), "Anna")
	require.True(t, ok)
	assert.Equal(t, "Orbit", entry.Avatar)

	rr = ts.request(http.MethodPut, "/api/v1/session/avatar", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestExerciseCatalogue(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t, "Anna", "pw")

	rr := ts.request(http.MethodGet, "/api/v1/exercises", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var list response.Exercises
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Exercises, len(model.ExerciseKinds))
	assert.True(t, list.JudgeAvailable)
	for _, info := range list.Exercises {
		assert.False(t, info.Mounted, info.Kind)
	}

	rr = ts.request(http.MethodPost, "/api/v1/exercises/karaoke", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeUnknownExercise, errorCode(t, rr))
}

func TestObjectionFlow(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t, "Anna", "pw")

	rr := ts.request(http.MethodGet, "/api/v1/exercises/objection", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeNotMounted, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/exercises/objection", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/exercises/objection/next", nil)
	assert.Equal(t, apierr.CodeNotAnswered, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/exercises/objection/submit", map[string]string{"text": "   "})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeEmptyAnswer, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/exercises/objection/submit", map[string]string{"text": "We can offer an extended warranty."})
	require.Equal(t, http.StatusOK, rr.Code)

	var submitted struct {
		Kind model.ExerciseKind `json:"kind"`
		View struct {
			Index   int            `json:"index"`
			Verdict *model.Verdict `json:"verdict"`
		} `json:"view"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &submitted))
	assert.Equal(t, model.KindObjection, submitted.Kind)
	require.NotNil(t, submitted.View.Verdict)
	assert.Equal(t, 30, submitted.View.Verdict.Judgement.Score)

	rr = ts.request(http.MethodPost, "/api/v1/exercises/objection/submit", map[string]string{"text": "again"})
	assert.Equal(t, apierr.CodeAlreadyAnswered, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/exercises/objection/next", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodDelete, "/api/v1/exercises/objection", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	var dash stats.Dashboard
	rr = ts.request(http.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dash))
	assert.Equal(t, 30, dash.Profile.XP)
	assert.Equal(t, 1, dash.AchievementCount)
}

func TestCheckText(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t, "Anna", "pw")
	require.Equal(t, http.StatusOK, ts.request(http.MethodPost, "/api/v1/exercises/objection", nil).Code)

	ts.app.MockJudge.Unavailable = true
	rr := ts.request(http.MethodPost, "/api/v1/exercises/objection/check-text", map[string]string{"text": "helo"})
	require.Equal(t, http.StatusOK, rr.Code)

	var sc response.SpellCheck
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sc))
	assert.True(t, sc.Degraded)
	assert.Equal(t, "helo", sc.CorrectedText)
}

func TestSimulatorActions(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t, "Anna", "pw")
	require.Equal(t, http.StatusOK, ts.request(http.MethodPost, "/api/v1/exercises/simulator", nil).Code)

	rr := ts.request(http.MethodPost, "/api/v1/exercises/simulator/mood", map[string]string{"mood": "Furious"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidMood, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/exercises/simulator/mood", map[string]string{"mood": "Irritated"})
	require.Equal(t, http.StatusOK, rr.Code)

	var view struct {
		View struct {
			Mood   model.Mood `json:"mood"`
			Stress int        `json:"stress"`
		} `json:"view"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, model.MoodIrritated, view.View.Mood)
	assert.Equal(t, 80, view.View.Stress)

	rr = ts.request(http.MethodPost, "/api/v1/exercises/simulator/submit", map[string]string{"text": "hi"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeUnsupportedAction, errorCode(t, rr))
}

func TestQuickReplyChooseNeedsOption(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t, "Anna", "pw")
	require.Equal(t, http.StatusOK, ts.request(http.MethodPost, "/api/v1/exercises/quick_reply", nil).Code)

	rr := ts.request(http.MethodPost, "/api/v1/exercises/quick_reply/choose", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/exercises/quick_reply/choose", map[string]int{"option": 9})
	assert.Equal(t, apierr.CodeInvalidOption, errorCode(t, rr))

	rr = ts.request(http.MethodPost, "/api/v1/exercises/quick_reply/choose", map[string]int{"option": 0})
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestLeaderboard(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t, "Boris", "pw")
	_, err := ts.app.ProgressionService.RecordScore(t.Context(), 300)
	require.NoError(t, err)
	ts.login(t, "Anna", "pw")

	rr := ts.request(http.MethodGet, "/api/v1/leaderboard", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var board stats.Leaderboard
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &board))
	require.Len(t, board.Rows, 2)
	assert.Equal(t, "Boris", board.Rows[0].Name)
	assert.Equal(t, 2, board.CurrentRank)
}

func TestAdminRoutes(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t, "Anna", "pw")
	_, err := ts.app.ProgressionService.RecordScore(t.Context(), 250)
	require.NoError(t, err)

	rr := ts.request(http.MethodGet, "/api/v1/admin/users", nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	id := ts.login(t, "ADMIN", "4545")
	assert.True(t, id.IsAdmin)

	rr = ts.request(http.MethodGet, "/api/v1/admin/users", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"Anna"`)

	rr = ts.request(http.MethodGet, "/api/v1/admin/users/Nobody", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/admin/stats", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var shop stats.ShopStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &shop))
	assert.Equal(t, 250, shop.TotalXP)
	assert.Equal(t, "Anna", shop.TopPerformer)

	rr = ts.request(http.MethodPost, "/api/v1/admin/users/Anna/reset", map[string]bool{"confirm": false})
	assert.Equal(t, http.StatusPreconditionRequired, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/admin/users/Anna/reset", map[string]bool{"confirm": true})
	assert.Equal(t, http.StatusNoContent, rr.Code)

	entry, _ := ts.app.Registry.Get(t.Context(), "Anna")
	assert.Equal(t, 0, entry.XP)
}

func TestAdminExport(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t, "Anna", "pw")
	ts.login(t, "admin", "4545")

	rr := ts.request(http.MethodGet, "/api/v1/admin/export", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "rbt-academy-users.xlsx")
	assert.Equal(t, response.XLSXContentType, rr.Header().Get("Content-Type"))
	assert.Equal(t, strconv.Itoa(rr.Body.Len()), rr.Header().Get("Content-Length"))

	f, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Users")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Anna", rows[1][0])
}

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Bekzhanizb/HabitGridBackend/config"
	"github.com/Bekzhanizb/HabitGridBackend/db"
	"github.com/Bekzhanizb/HabitGridBackend/models"
	"github.com/Bekzhanizb/HabitGridBackend/services"
	"github.com/Bekzhanizb/HabitGridBackend/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := db.Connect(&config.Config{
		DBDriver: config.DriverSQLite,
		DBPath:   filepath.Join(t.TempDir(), "habits.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(database) })

	h := New(services.NewHabitService(database, zap.NewNop()), nil)

	r := gin.New()
	r.GET("/api/habits", h.GetHabits)
	r.POST("/api/habits", h.CreateHabit)
	r.DELETE("/api/habits/:id", h.DeleteHabit)
	r.GET("/api/checks", h.GetChecks)
	r.POST("/api/checks/toggle", h.ToggleCheck)
	r.GET("/api/stats", h.GetStats)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestGetHabits(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/habits", "")
	require.Equal(t, http.StatusOK, w.Code)

	var habits []models.Habit
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &habits))
	require.Len(t, habits, 10)
	require.Equal(t, models.Habit{ID: 1, Name: "5:30 AM Wake Up", Icon: "bi-alarm", Color: "#f87171"}, habits[0])

	var raw []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	require.ElementsMatch(t, []string{"id", "name", "icon", "color"}, keys(raw[0]))
}

func TestCreateHabit(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/habits", `{"name":"Drink Water"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var habit models.Habit
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &habit))
	require.Equal(t, "Drink Water", habit.Name)
	require.Equal(t, "bi-pencil-square", habit.Icon)
	require.Equal(t, "#000000", habit.Color)
	require.Greater(t, habit.ID, uint(10))

	w = do(r, http.MethodGet, "/api/habits", "")
	require.Contains(t, w.Body.String(), `"name":"Drink Water"`)
}

func TestCreateHabitRequiresName(t *testing.T) {
	r := newTestRouter(t)

	for _, body := range []string{`{}`, `{"name":""}`, `{"name":null}`} {
		w := do(r, http.MethodPost, "/api/habits", body)
		require.Equal(t, http.StatusBadRequest, w.Code, body)
		require.JSONEq(t, `{"error":"Name is required"}`, w.Body.String())
	}

	w := do(r, http.MethodPost, "/api/habits", `{"name":`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var habits []models.Habit
	w = do(r, http.MethodGet, "/api/habits", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &habits))
	require.Len(t, habits, 10)
}

func TestDeleteHabit(t *testing.T) {
	r := newTestRouter(t)

	do(r, http.MethodPost, "/api/checks/toggle", `{"habitId":3,"date":"2024-01-01"}`)
	do(r, http.MethodPost, "/api/checks/toggle", `{"habitId":3,"date":"2024-01-02"}`)

	w := do(r, http.MethodDelete, "/api/habits/3", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"success":true}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/checks", "")
	require.JSONEq(t, `{}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/habits", "")
	require.NotContains(t, w.Body.String(), `"id":3,`)
}

func TestDeleteHabitIdempotent(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodDelete, "/api/habits/9999", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"success":true}`, w.Body.String())

	w = do(r, http.MethodDelete, "/api/habits/abc", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToggleAndListChecks(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/api/checks/toggle", `{"habitId":1,"date":"2024-05-01"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"checked":true}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/checks", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"1-2024-05-01":true}`, w.Body.String())

	w = do(r, http.MethodPost, "/api/checks/toggle", `{"habitId":1,"date":"2024-05-01"}`)
	require.JSONEq(t, `{"checked":false}`, w.Body.String())

	w = do(r, http.MethodGet, "/api/checks", "")
	require.JSONEq(t, `{}`, w.Body.String())
}

func TestToggleLogsOnce(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	prev := utils.Logger
	utils.Logger = logger
	t.Cleanup(func() { utils.Logger = prev })

	database, err := db.Connect(&config.Config{
		DBDriver: config.DriverSQLite,
		DBPath:   filepath.Join(t.TempDir(), "habits.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(database) })

	h := New(services.NewHabitService(database, logger), nil)
	r := gin.New()
	r.POST("/api/checks/toggle", h.ToggleCheck)

	w := do(r, http.MethodPost, "/api/checks/toggle", `{"habitId":1,"date":"2024-05-01"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, logs.FilterMessage("check_toggled").Len())
}

func TestToggleValidation(t *testing.T) {
	r := newTestRouter(t)

	cases := map[string]string{
		`{"date":"2024-05-01"}`:             "habitId is required",
		`{"habitId":1}`:                     "date is required",
		`{"habitId":1,"date":""}`:           "date is required",
		`{"habitId":0,"date":"2024-05-01"}`: "habitId is required",
	}
	for body, msg := range cases {
		w := do(r, http.MethodPost, "/api/checks/toggle", body)
		require.Equal(t, http.StatusBadRequest, w.Code, body)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Equal(t, msg, resp["error"], body)
	}

	w := do(r, http.MethodPost, "/api/checks/toggle", `{"habitId":"one","date":"2024-05-01"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetStats(t *testing.T) {
	r := newTestRouter(t)

	do(r, http.MethodPost, "/api/checks/toggle", `{"habitId":1,"date":"2024-05-01"}`)
	do(r, http.MethodPost, "/api/checks/toggle", `{"habitId":1,"date":"2024-05-02"}`)

	w := do(r, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, w.Code)

	var stats []services.HabitStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	require.Len(t, stats, 10)
	require.Equal(t, 2, stats[0].TotalChecks)
	require.Equal(t, 2, stats[0].CurrentStreak)
}

func keys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

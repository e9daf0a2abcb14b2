package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	internalmiddleware "github.com/noah-isme/signup-sheets-api/internal/middleware"
	"github.com/noah-isme/signup-sheets-api/internal/repository"
	"github.com/noah-isme/signup-sheets-api/internal/service"
	"github.com/noah-isme/signup-sheets-api/pkg/storage"
)

func buildRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	blob, err := storage.NewFileBlob(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)
	metrics := service.NewMetricsService()
	store := repository.NewStateStore(blob, zap.NewNop(), repository.WithFlushObserver(metrics))
	require.NoError(t, store.Load(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	courses := service.NewCourseService(store, nil, nil)
	sheets := service.NewSheetService(store, nil, nil)
	slots := service.NewSlotService(store, 10, nil, nil)
	signups := service.NewSignupService(store, metrics, nil, nil)
	grades := service.NewGradeService(store, metrics, nil, nil)
	exports := service.NewExportService(store, nil, nil, nil)

	r := gin.New()
	r.Use(internalmiddleware.Metrics(metrics))
	RegisterRoutes(r.Group("/api"), Handlers{
		Courses: NewCourseHandler(courses),
		Sheets:  NewSheetHandler(sheets, slots, exports),
		Slots:   NewSlotHandler(slots, signups),
		Grades:  NewGradeHandler(grades),
		Metrics: NewMetricsHandler(metrics.Handler(), nil),
	})
	return r
}

func performRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req, _ = http.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func readEnvelope(t *testing.T, w *httptest.ResponseRecorder, into interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if into != nil {
		require.NoError(t, json.Unmarshal(env.Data, into))
	}
	return env
}

func TestOfficeHoursOverHTTP(t *testing.T) {
	r := buildRouter(t)

	w := performRequest(r, http.MethodPost, "/api/courses", `{"code":"CS101","name":"Intro"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var course struct {
		ID int64 `json:"id"`
	}
	readEnvelope(t, w, &course)

	w = performRequest(r, http.MethodPost, fmt.Sprintf("/api/courses/%d/members", course.ID), `[{"id":"A","name":"Alice"},{"id":"B","name":"Bob"},{"id":"A","name":"Alias"}]`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var added struct {
		Added   int      `json:"added"`
		Ignored []string `json:"ignored"`
	}
	readEnvelope(t, w, &added)
	assert.Equal(t, 2, added.Added)
	assert.Equal(t, []string{"A"}, added.Ignored)

	w = performRequest(r, http.MethodPost, fmt.Sprintf("/api/courses/%d/sheets", course.ID), `{"name":"OH1","notBefore":"2024-01-01","notAfter":"2024-01-31"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var sheet struct {
		ID        int64  `json:"id"`
		NotBefore string `json:"notBefore"`
	}
	readEnvelope(t, w, &sheet)
	assert.Equal(t, "2024-01-01T00:00:00Z", sheet.NotBefore)

	w = performRequest(r, http.MethodPost, fmt.Sprintf("/api/sheets/%d/slots", sheet.ID), `{"start":"2024-01-10T10:00","slotDuration":15,"numSlots":2,"maxMembers":1}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var slots []struct {
		ID         int64  `json:"id"`
		MaxMembers int    `json:"maxMembers"`
		Start      string `json:"start"`
	}
	readEnvelope(t, w, &slots)
	require.Len(t, slots, 2)
	assert.Equal(t, 1, slots[0].MaxMembers)
	assert.Equal(t, slots[0].Start, slots[1].Start)

	signup := func(slotID int64, member string) *httptest.ResponseRecorder {
		return performRequest(r, http.MethodPost, fmt.Sprintf("/api/slots/%d/signup", slotID), fmt.Sprintf(`{"memberId":%q}`, member))
	}

	w = signup(slots[0].ID, "A")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"ok":true`)

	w = signup(slots[0].ID, "B")
	require.Equal(t, http.StatusBadRequest, w.Code)
	env := readEnvelope(t, w, nil)
	assert.Equal(t, "slot full", env.Error.Message)

	w = signup(slots[0].ID, "A")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "already signed up", readEnvelope(t, w, nil).Error.Message)

	w = signup(slots[1].ID, "Z")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid member for course", readEnvelope(t, w, nil).Error.Message)

	w = signup(slots[1].ID, "B")
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(r, http.MethodPost, "/api/grades", fmt.Sprintf(`{"memberId":"A","sheetId":%d,"grade":90,"comment":"good"}`, sheet.ID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = performRequest(r, http.MethodPost, "/api/grades", fmt.Sprintf(`{"memberId":"A","sheetId":%d,"grade":95,"comment":"revised"}`, sheet.ID))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var merged struct {
		Old   int `json:"old"`
		Grade struct {
			Value   int    `json:"grade"`
			Comment string `json:"comment"`
		} `json:"grade"`
	}
	readEnvelope(t, w, &merged)
	assert.Equal(t, 90, merged.Old)
	assert.Equal(t, 95, merged.Grade.Value)
	assert.Equal(t, "good revised", merged.Grade.Comment)

	w = performRequest(r, http.MethodPost, "/api/grades", fmt.Sprintf(`{"memberId":"A","sheetId":%d,"grade":101}`, sheet.ID))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(r, http.MethodGet, fmt.Sprintf("/api/sheets/%d/export?format=csv", sheet.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="CS101-1-OH1.csv"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), "A,Alice,95,good revised")

	w = performRequest(r, http.MethodDelete, fmt.Sprintf("/api/slots/%d/signup/A", slots[0].ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	w = performRequest(r, http.MethodDelete, fmt.Sprintf("/api/slots/%d/signup/A", slots[0].ID), "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "member not signed up", readEnvelope(t, w, nil).Error.Message)

	w = performRequest(r, http.MethodDelete, fmt.Sprintf("/api/sheets/%d", sheet.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	w = performRequest(r, http.MethodGet, fmt.Sprintf("/api/sheets/%d/grades", sheet.ID), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = performRequest(r, http.MethodGet, fmt.Sprintf("/api/slots/%d", slots[1].ID), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(r, http.MethodGet, "/api/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `signup_operations_total{outcome="full"} 1`)
}

func TestSlotBatchValidationOverHTTP(t *testing.T) {
	r := buildRouter(t)

	w := performRequest(r, http.MethodPost, "/api/courses", `{"code":"CS101","name":"Intro"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	w = performRequest(r, http.MethodPost, "/api/courses/1/sheets", `{"name":"Lab"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	bodies := []string{
		`{"start":"2024-01-10T10:00","slotDuration":15,"maxMembers":1}`,
		`{"start":"2024-01-10T10:00","slotDuration":"15","numSlots":2,"maxMembers":1}`,
		`{"start":"2024-01-10T10:00","slotDuration":15,"numSlots":0,"maxMembers":1}`,
		`{"start":"2024-01-10T10:00","slotDuration":15,"numSlots":11,"maxMembers":1}`,
		`{"slotDuration":15,"numSlots":1,"maxMembers":1}`,
	}
	for _, body := range bodies {
		w = performRequest(r, http.MethodPost, "/api/sheets/1/slots", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}

	w = performRequest(r, http.MethodPost, "/api/sheets/9/slots", `{"start":"2024-01-10T10:00","slotDuration":15,"numSlots":1,"maxMembers":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(r, http.MethodGet, "/api/sheets/1/slots", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `"data":[]`), w.Body.String())
}

func TestHealthEndpoints(t *testing.T) {
	r := buildRouter(t)

	w := performRequest(r, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)

	w = performRequest(r, http.MethodGet, "/api/ready", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(r, http.MethodGet, "/api/sheets/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"rpgroster/errx"
	"rpgroster/models"
	"rpgroster/query"
	"rpgroster/repository"
	"rpgroster/services"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zaptest.NewLogger(t)
	svc := services.NewPlayerService(repository.NewMemoryStore(), nil, nil, log)
	h := NewPlayerHandler(svc, query.DefaultPage(), log)
	health := NewHealthHandler(svc, log)

	r := gin.New()
	r.GET("/rest/players", h.ListPlayers)
	r.POST("/rest/players", h.CreatePlayer)
	r.GET("/rest/players/count", h.CountPlayers)
	r.GET("/rest/players/:id", h.GetPlayer)
	r.POST("/rest/players/:id", h.UpdatePlayer)
	r.DELETE("/rest/players/:id", h.DeletePlayer)
	r.GET("/health", health.Health)
	return r
}

func do(r http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func birthday(year int) int64 {
	return time.Date(year, 6, 15, 12, 0, 0, 0, time.Local).UnixMilli()
}

func playerBody(name string, race models.Race, experience int, year int) map[string]any {
	return map[string]any{
		"name":       name,
		"title":      "Wanderer",
		"race":       race,
		"profession": models.ProfessionRogue,
		"experience": experience,
		"birthday":   birthday(year),
	}
}

func decodePlayer(t *testing.T, w *httptest.ResponseRecorder) models.Player {
	t.Helper()
	var p models.Player
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	return p
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func seed(t *testing.T, r http.Handler) {
	t.Helper()
	bodies := []map[string]any{
		playerBody("Amarfi", models.RaceElf, 100, 2001),
		playerBody("amarfi", models.RaceElf, 5000, 2010),
		playerBody("Brug", models.RaceOrc, 9000, 2005),
		playerBody("Zed", models.RaceHuman, 0, 2020),
		playerBody("Tharn", models.RaceDwarf, 300, 2015),
	}
	for _, b := range bodies {
		w := do(r, http.MethodPost, "/rest/players", b)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
}

func TestCreatePlayer(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodPost, "/rest/players", playerBody("Ezgarrat", models.RaceOrc, 100, 2010))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	p := decodePlayer(t, w)
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 200, p.UntilNextLevel)
	assert.False(t, p.Banned)
	assert.Equal(t, birthday(2010), p.Birthday.UnixMilli())
}

func TestCreatePlayer_Rejections(t *testing.T) {
	r := newTestRouter(t)

	withID := playerBody("Ezgarrat", models.RaceOrc, 100, 2010)
	withID["id"] = 4
	tooLong := playerBody("Ezgarrat12345", models.RaceOrc, 100, 2010)
	badRace := playerBody("Ezgarrat", models.RaceOrc, 100, 2010)
	badRace["race"] = "WIZARD"
	oldBirthday := playerBody("Ezgarrat", models.RaceOrc, 100, 1999)

	tests := []struct {
		name  string
		body  any
		code  errx.Code
		field string
	}{
		{name: "client id", body: withID, code: errx.CodeBadRequest, field: "id"},
		{name: "name too long", body: tooLong, code: errx.CodeInvalidField, field: "name"},
		{name: "unknown race", body: badRace, code: errx.CodeBadRequest},
		{name: "birthday out of range", body: oldBirthday, code: errx.CodeInvalidField, field: "birthday"},
		{name: "malformed json", body: `{"name":`, code: errx.CodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/rest/players", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			body := decodeError(t, w)
			assert.Equal(t, string(tt.code), body["code"])
			if tt.field != "" {
				assert.Equal(t, tt.field, body["field"])
			}
		})
	}
}

func TestGetPlayer(t *testing.T) {
	r := newTestRouter(t)
	seed(t, r)

	w := do(r, http.MethodGet, "/rest/players/3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Brug", decodePlayer(t, w).Name)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/rest/players/0", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/rest/players/-1", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/rest/players/abc", nil).Code)

	w = do(r, http.MethodGet, "/rest/players/999999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, string(errx.CodeNotFound), decodeError(t, w)["code"])
}

func TestUpdatePlayer(t *testing.T) {
	r := newTestRouter(t)
	seed(t, r)
	before := decodePlayer(t, do(r, http.MethodGet, "/rest/players/1", nil))

	w := do(r, http.MethodPost, "/rest/players/1", map[string]any{"title": "Keeper"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	after := decodePlayer(t, w)
	before.Title = "Keeper"
	assert.Equal(t, before.Name, after.Name)
	assert.Equal(t, before.Title, after.Title)
	assert.Equal(t, before.Experience, after.Experience)
	assert.Equal(t, before.Level, after.Level)
	assert.Equal(t, before.Birthday.UnixMilli(), after.Birthday.UnixMilli())

	w = do(r, http.MethodPost, "/rest/players/1", map[string]any{"experience": 20_000_000})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "experience", decodeError(t, w)["field"])

	w = do(r, http.MethodPost, "/rest/players/42", map[string]any{"title": "Ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeletePlayer(t *testing.T) {
	r := newTestRouter(t)
	seed(t, r)

	w := do(r, http.MethodDelete, "/rest/players/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "amarfi", decodePlayer(t, w).Name)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/rest/players/2", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/rest/players/2", nil).Code)
}

func listIDs(t *testing.T, r http.Handler, target string) []int64 {
	t.Helper()
	w := do(r, http.MethodGet, target, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var players []models.Player
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &players))
	ids := make([]int64, 0, len(players))
	for _, p := range players {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestListPlayers(t *testing.T) {
	r := newTestRouter(t)
	seed(t, r)

	assert.Equal(t, []int64{1, 2, 3}, listIDs(t, r, "/rest/players"))
	assert.Equal(t, []int64{4, 5}, listIDs(t, r, "/rest/players?pageNumber=1"))
	assert.Empty(t, listIDs(t, r, "/rest/players?pageNumber=50&pageSize=3"))
	assert.Empty(t, listIDs(t, r, "/rest/players?pageNumber=4611686018427387904&pageSize=2"))
	assert.Len(t, listIDs(t, r, "/rest/players?pageSize=9223372036854775807"), 5)
	assert.Equal(t, []int64{4, 1, 5, 2, 3}, listIDs(t, r, "/rest/players?order=EXPERIENCE&pageSize=10"))
	assert.Equal(t, []int64{1}, listIDs(t, r, "/rest/players?name=Amar"))
	assert.Equal(t, []int64{1, 2}, listIDs(t, r, "/rest/players?race=ELF"))
	assert.Equal(t, []int64{5, 2}, listIDs(t, r, "/rest/players?minExperience=300&maxExperience=5000&order=experience"))
	assert.Empty(t, listIDs(t, r, "/rest/players?minExperience=100&maxExperience=50"))
	assert.Equal(t, []int64{2, 3, 4}, listIDs(t, r, "/rest/players?filter=experience%20%3C%20100%20OR%20level%20%3E%3D%209"))
}

func TestListPlayers_BirthdayWindow(t *testing.T) {
	r := newTestRouter(t)
	seed(t, r)

	after := birthday(2005)
	before := birthday(2015)
	target := "/rest/players?pageSize=10&after=" + itoa(after) + "&before=" + itoa(before)
	assert.Equal(t, []int64{2, 3}, listIDs(t, r, target))
}

func itoa(n int64) string {
	data, _ := json.Marshal(n)
	return string(data)
}

func TestListPlayers_MalformedParams(t *testing.T) {
	r := newTestRouter(t)

	for _, target := range []string{
		"/rest/players?pageNumber=x",
		"/rest/players?pageSize=0",
		"/rest/players?pageNumber=-1",
		"/rest/players?race=elf",
		"/rest/players?profession=BARD",
		"/rest/players?banned=maybe",
		"/rest/players?minLevel=1.5",
		"/rest/players?order=TITLE",
		"/rest/players?filter=mana%20%3E%203",
		"/rest/players/count?after=yesterday",
	} {
		w := do(r, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestCountPlayers(t *testing.T) {
	r := newTestRouter(t)
	seed(t, r)

	w := do(r, http.MethodGet, "/rest/players/count", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "5", w.Body.String())

	w = do(r, http.MethodGet, "/rest/players/count?race=ELF&pageSize=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Body.String())
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","store":"up"}`, w.Body.String())
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusFor(errx.ErrBadRequest))
	assert.Equal(t, http.StatusBadRequest, StatusFor(errx.ErrInvalidField.WithData("field", "name")))
	assert.Equal(t, http.StatusNotFound, StatusFor(errx.ErrNotFound.WithMsg("player not found")))
	assert.Equal(t, http.StatusServiceUnavailable, StatusFor(errx.ErrUnavailable.WithCause(errors.New("dial tcp"))))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("boom")))
}

package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/FACorreiaa/go-hbnb/config"
	"github.com/FACorreiaa/go-hbnb/internal/container"
	"github.com/FACorreiaa/go-hbnb/internal/router"
	"github.com/FACorreiaa/go-hbnb/internal/storage"
)

// E2ETestSuite drives the real router over HTTP against a file engine.
type E2ETestSuite struct {
	suite.Suite
	server    *httptest.Server
	client    *http.Client
	baseURL   string
	logger    *slog.Logger
	storePath string
}

func (suite *E2ETestSuite) SetupTest() {
	suite.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	suite.storePath = filepath.Join(suite.T().TempDir(), "file.json")

	cfg := &config.Config{}
	cfg.Storage.Type = config.StorageFile
	cfg.Storage.FilePath = suite.storePath
	cfg.Server.StatsCacheTTL = time.Minute

	store := storage.NewFileStorage(suite.storePath, suite.logger)
	suite.server = httptest.NewServer(router.SetupRouter(container.New(cfg, store, suite.logger)))
	suite.baseURL = suite.server.URL + "/api/v1"
	suite.client = &http.Client{Timeout: 10 * time.Second}
}

func (suite *E2ETestSuite) TearDownTest() {
	if suite.server != nil {
		suite.server.Close()
	}
}

func (suite *E2ETestSuite) makeRequest(method, path string, body any) (*http.Response, []byte) {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, suite.baseURL+path, reader)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := suite.client.Do(req)
	suite.Require().NoError(err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	suite.Require().NoError(err)
	return resp, raw
}

func (suite *E2ETestSuite) create(path string, body any) map[string]any {
	resp, raw := suite.makeRequest(http.MethodPost, path, body)
	suite.Require().Equal(http.StatusCreated, resp.StatusCode, string(raw))
	var obj map[string]any
	suite.Require().NoError(json.Unmarshal(raw, &obj))
	return obj
}

func (suite *E2ETestSuite) list(path string) []map[string]any {
	resp, raw := suite.makeRequest(http.MethodGet, path, nil)
	suite.Require().Equal(http.StatusOK, resp.StatusCode, string(raw))
	var objs []map[string]any
	suite.Require().NoError(json.Unmarshal(raw, &objs))
	return objs
}

func (suite *E2ETestSuite) TestCompleteListingWorkflow() {
	t := suite.T()

	state := suite.create("/states", map[string]any{"name": "California"})
	stateID := state["id"].(string)
	assert.Equal(t, "State", state["__class__"])

	city := suite.create("/states/"+stateID+"/cities", map[string]any{"name": "San Francisco"})
	cityID := city["id"].(string)

	user := suite.create("/users", map[string]any{
		"email":      "host@example.com",
		"password":   "secret",
		"first_name": "Betty",
	})
	userID := user["id"].(string)
	assert.NotContains(t, user, "password")

	place := suite.create("/cities/"+cityID+"/places", map[string]any{
		"user_id":        userID,
		"name":           "Loft",
		"number_rooms":   2,
		"price_by_night": 120,
	})
	placeID := place["id"].(string)
	assert.Equal(t, cityID, place["city_id"])
	assert.EqualValues(t, 2, place["number_rooms"])

	wifi := suite.create("/amenities", map[string]any{"name": "Wifi"})
	wifiID := wifi["id"].(string)

	resp, _ := suite.makeRequest(http.MethodPost, "/places/"+placeID+"/amenities/"+wifiID, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = suite.makeRequest(http.MethodPost, "/places/"+placeID+"/amenities/"+wifiID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	amenities := suite.list("/places/" + placeID + "/amenities")
	require.Len(t, amenities, 1)
	assert.Equal(t, "Wifi", amenities[0]["name"])

	review := suite.create("/places/"+placeID+"/reviews", map[string]any{
		"user_id": userID,
		"text":    "Great view",
	})
	assert.Equal(t, placeID, review["place_id"])

	// search by state with the linked amenity
	resp, raw := suite.makeRequest(http.MethodPost, "/places_search", map[string]any{
		"states":    []string{stateID},
		"amenities": []string{wifiID},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var found []map[string]any
	require.NoError(t, json.Unmarshal(raw, &found))
	require.Len(t, found, 1)
	assert.Equal(t, placeID, found[0]["id"])

	resp, raw = suite.makeRequest(http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"amenities":1,"cities":1,"places":1,"reviews":1,"states":1,"users":1}`, string(raw))

	page, err := suite.client.Get(suite.server.URL + "/hbnb")
	require.NoError(t, err)
	defer page.Body.Close()
	html, err := io.ReadAll(page.Body)
	require.NoError(t, err)
	assert.Contains(t, string(html), "California")
	assert.Contains(t, string(html), "Loft")
	assert.Contains(t, string(html), "Wifi")
}

func (suite *E2ETestSuite) TestUpdateWorkflow() {
	t := suite.T()

	state := suite.create("/states", map[string]any{"name": "Nevada"})
	stateID := state["id"].(string)

	resp, raw := suite.makeRequest(http.MethodPut, "/states/"+stateID, map[string]any{
		"name":       "Arizona",
		"id":         "ignored",
		"created_at": "ignored",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated map[string]any
	require.NoError(t, json.Unmarshal(raw, &updated))
	assert.Equal(t, "Arizona", updated["name"])
	assert.Equal(t, stateID, updated["id"])
	assert.Equal(t, state["created_at"], updated["created_at"])

	resp, _ = suite.makeRequest(http.MethodDelete, "/states/"+stateID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = suite.makeRequest(http.MethodGet, "/states/"+stateID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func (suite *E2ETestSuite) TestErrorHandlingWorkflow() {
	t := suite.T()

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		want   string
	}{
		{"unknown route", http.MethodGet, "/nop", nil, http.StatusNotFound, `{"error":"Not found"}`},
		{"unknown state", http.MethodGet, "/states/nop", nil, http.StatusNotFound, `{"error":"Not found"}`},
		{"not a json", http.MethodPost, "/states", "name=x", http.StatusBadRequest, `{"error":"Not a JSON"}`},
		{"missing name", http.MethodPost, "/amenities", map[string]any{"x": 1}, http.StatusBadRequest, `{"error":"Missing name"}`},
		{"missing email", http.MethodPost, "/users", map[string]any{"password": "p"}, http.StatusBadRequest, `{"error":"Missing email"}`},
		{"missing password", http.MethodPost, "/users", map[string]any{"email": "e"}, http.StatusBadRequest, `{"error":"Missing password"}`},
		{"cities of unknown state", http.MethodPost, "/states/nop/cities", map[string]any{"name": "x"}, http.StatusNotFound, `{"error":"Not found"}`},
		{"search not a json", http.MethodPost, "/places_search", "[", http.StatusBadRequest, `{"error":"Not a JSON"}`},
	}

	for _, tt := range tests {
		resp, raw := suite.makeRequest(tt.method, tt.path, tt.body)
		assert.Equal(t, tt.status, resp.StatusCode, tt.name)
		assert.JSONEq(t, tt.want, string(raw), tt.name)
	}
}

func (suite *E2ETestSuite) TestConcurrentWrites() {
	t := suite.T()
	const workers = 10

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body := strings.NewReader(`{"name":"Wifi"}`)
			resp, err := suite.client.Post(suite.baseURL+"/amenities", "application/json", body)
			if assert.NoError(t, err) {
				resp.Body.Close()
				assert.Equal(t, http.StatusCreated, resp.StatusCode)
			}
		}()
	}
	wg.Wait()

	assert.Len(t, suite.list("/amenities"), workers)
}

func (suite *E2ETestSuite) TestDataPersistedToFile() {
	t := suite.T()
	state := suite.create("/states", map[string]any{"name": "Oregon"})

	reloaded := storage.NewFileStorage(suite.storePath, suite.logger)
	require.NoError(t, reloaded.Reload(t.Context()))
	obj, err := reloaded.Get(t.Context(), "State", state["id"].(string))
	require.NoError(t, err)
	assert.Equal(t, state["id"], obj.Meta().ID)
}

func TestE2E(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E tests in short mode")
	}
	suite.Run(t, new(E2ETestSuite))
}

package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/ethanbaker/api/pkg/api_types"
	"github.com/ethanbaker/catfacts/internal/api"
	"github.com/ethanbaker/catfacts/internal/api/apitest"
	"github.com/ethanbaker/catfacts/pkg/cache"
	"github.com/ethanbaker/catfacts/pkg/sdk"
	"github.com/ethanbaker/catfacts/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// perform sends a request straight to the engine
func perform(fx *apitest.Fixture, method, path, contentType string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	rec := httptest.NewRecorder()
	fx.Engine.ServeHTTP(rec, req)
	return rec
}

func postForm(fx *apitest.Fixture, path string, form url.Values) *httptest.ResponseRecorder {
	return perform(fx, http.MethodPost, path, "application/x-www-form-urlencoded", form.Encode())
}

func sendJSON(t *testing.T, fx *apitest.Fixture, method, path string, in any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(in))
	return perform(fx, method, path, "application/json", buf.String())
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) sdk.ApiResponse[T] {
	t.Helper()
	var resp sdk.ApiResponse[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func addFact(t *testing.T, fx *apitest.Fixture, text string) {
	t.Helper()
	rec := postForm(fx, "/api/catfacts", url.Values{"fact": {text}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func listFacts(t *testing.T, fx *apitest.Fixture) []sdk.Fact {
	t.Helper()
	rec := perform(fx, http.MethodGet, "/api/catfacts", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	return decode[[]sdk.Fact](t, rec).Data
}

func TestHealth(t *testing.T) {
	fx := apitest.New(t)

	rec := perform(fx, http.MethodGet, "/api/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[sdk.HealthStatus](t, rec)
	assert.Equal(t, api_types.StatusSuccess, resp.Status)
	assert.Equal(t, "up", resp.Data.Database)
	assert.Equal(t, "up", resp.Data.Cache)
	assert.Equal(t, "closed", resp.Data.Upstream)
}

func TestHealthCacheDown(t *testing.T) {
	fx := apitest.New(t)
	fx.StopCache()

	rec := perform(fx, http.MethodGet, "/api/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "down", decode[sdk.HealthStatus](t, rec).Data.Cache)
}

func TestRequestID(t *testing.T) {
	fx := apitest.New(t)

	rec := perform(fx, http.MethodGet, "/api/health", "", "")
	assert.NotEmpty(t, rec.Header().Get(api.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(api.RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	fx.Engine.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(api.RequestIDHeader))
}

func TestNoRoute(t *testing.T) {
	fx := apitest.New(t)

	rec := perform(fx, http.MethodGet, "/api/dogfacts", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddFact(t *testing.T) {
	fx := apitest.New(t)

	rec := postForm(fx, "/api/catfacts", url.Values{"fact": {"Cats sleep 70% of their lives"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Fact added!", decode[any](t, rec).Message)

	rec = postForm(fx, "/api/catfacts", url.Values{"fact": {"Cats sleep 70% of their lives"}})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Duplicate fact.", decode[any](t, rec).Message)

	for _, form := range []url.Values{{"fact": {""}}, {"fact": {"   "}}, {}} {
		rec = postForm(fx, "/api/catfacts", form)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Fact cannot be empty.", decode[any](t, rec).Message)
	}

	assert.Len(t, listFacts(t, fx), 1)
}

func TestListFactsCaching(t *testing.T) {
	fx := apitest.New(t)

	for i := 1; i <= 7; i++ {
		addFact(t, fx, fmt.Sprintf("Fact number %d", i))
	}

	list := listFacts(t, fx)
	require.Len(t, list, 5)
	assert.Equal(t, "Fact number 7", list[0].Fact)
	assert.Equal(t, "Fact number 3", list[4].Fact)
	assert.True(t, fx.Redis.Exists(cache.KeyAllFacts))

	// A write drops the listing, the next read sees it
	addFact(t, fx, "Fact number 8")
	assert.False(t, fx.Redis.Exists(cache.KeyAllFacts))
	assert.Equal(t, "Fact number 8", listFacts(t, fx)[0].Fact)
}

func TestListFactsEmpty(t *testing.T) {
	fx := apitest.New(t)

	rec := perform(fx, http.MethodGet, "/api/catfacts", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestRandomFact(t *testing.T) {
	fx := apitest.New(t)

	rec := perform(fx, http.MethodGet, "/api/catfacts/random", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No facts found.", decode[any](t, rec).Message)
	assert.False(t, fx.Redis.Exists(cache.KeyRandomFact))

	addFact(t, fx, "Cats have 32 muscles in each ear")

	rec = perform(fx, http.MethodGet, "/api/catfacts/random", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	first := decode[sdk.RandomFact](t, rec).Data
	assert.Equal(t, "Cats have 32 muscles in each ear", first.Fact)
	assert.Equal(t, "store", first.Source)

	rec = perform(fx, http.MethodGet, "/api/catfacts/random", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	second := decode[sdk.RandomFact](t, rec).Data
	assert.Equal(t, first.Fact, second.Fact)
	assert.Equal(t, "cache", second.Source)
}

func TestUpdateFact(t *testing.T) {
	fx := apitest.New(t)
	addFact(t, fx, "Cats purr at 25 Hz")
	addFact(t, fx, "Cats walk on their toes")
	list := listFacts(t, fx)
	id := list[1].ID

	rec := sendJSON(t, fx, http.MethodPut, fmt.Sprintf("/api/catfacts/%d", id), sdk.UpdateFactRequest{Fact: "Cats purr between 25 and 150 Hz"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Fact updated!", decode[any](t, rec).Message)
	assert.Equal(t, "Cats purr between 25 and 150 Hz", listFacts(t, fx)[1].Fact)

	tests := []struct {
		name string
		path string
		body string
		code int
	}{
		{"non-numeric id", "/api/catfacts/abc", `{"fact":"x"}`, http.StatusBadRequest},
		{"zero id", "/api/catfacts/0", `{"fact":"x"}`, http.StatusBadRequest},
		{"malformed body", fmt.Sprintf("/api/catfacts/%d", id), `{"fact":`, http.StatusBadRequest},
		{"blank text", fmt.Sprintf("/api/catfacts/%d", id), `{"fact":"  "}`, http.StatusBadRequest},
		{"missing fact", "/api/catfacts/9999", `{"fact":"Something new"}`, http.StatusConflict},
		{"duplicate text", fmt.Sprintf("/api/catfacts/%d", id), `{"fact":"Cats walk on their toes"}`, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := perform(fx, http.MethodPut, tt.path, "application/json", tt.body)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}
}

func TestDeleteFact(t *testing.T) {
	fx := apitest.New(t)
	addFact(t, fx, "Cats can rotate their ears 180 degrees")
	id := listFacts(t, fx)[0].ID

	rec := perform(fx, http.MethodDelete, "/api/catfacts/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = perform(fx, http.MethodDelete, fmt.Sprintf("/api/catfacts/%d", id), "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Fact deleted!", decode[any](t, rec).Message)
	assert.Empty(t, listFacts(t, fx))

	rec = perform(fx, http.MethodDelete, fmt.Sprintf("/api/catfacts/%d", id), "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFetchFact(t *testing.T) {
	fx := apitest.New(t)
	fx.Upstream.RespondFact("A group of cats is called a clowder")

	rec := perform(fx, http.MethodPost, "/api/catfacts/fetch", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "A group of cats is called a clowder", decode[sdk.FetchedFact](t, rec).Data.Fact)
	assert.Equal(t, "A group of cats is called a clowder", listFacts(t, fx)[0].Fact)

	// Fetching the same fact again is a duplicate
	rec = perform(fx, http.MethodPost, "/api/catfacts/fetch", "", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestFetchFactUpstreamFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   int
	}{
		{"upstream error status", http.StatusInternalServerError, `oops`, http.StatusBadGateway},
		{"malformed body", http.StatusOK, `not json`, http.StatusBadGateway},
		{"missing fact", http.StatusOK, `{"length":0}`, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := apitest.New(t)
			fx.Upstream.Respond(tt.status, tt.body)

			rec := perform(fx, http.MethodPost, "/api/catfacts/fetch", "", "")
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
			assert.Empty(t, listFacts(t, fx))
		})
	}
}

func TestLikes(t *testing.T) {
	fx := apitest.New(t)
	addFact(t, fx, "Cats have a third eyelid")
	id := listFacts(t, fx)[0].ID
	require.True(t, fx.Redis.Exists(cache.KeyAllFacts))

	rec := sendJSON(t, fx, http.MethodPost, "/api/likes", sdk.LikeRequest{FactID: &id})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Fact liked!", decode[any](t, rec).Message)
	assert.False(t, fx.Redis.Exists(cache.KeyAllFacts))

	// Second like and a like for a missing fact both conflict
	rec = sendJSON(t, fx, http.MethodPost, "/api/likes", sdk.LikeRequest{FactID: &id})
	assert.Equal(t, http.StatusConflict, rec.Code)
	missing := uint(9999)
	rec = sendJSON(t, fx, http.MethodPost, "/api/likes", sdk.LikeRequest{FactID: &missing})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = perform(fx, http.MethodPost, "/api/likes", "application/json", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing fact_id.", decode[any](t, rec).Message)

	rec = perform(fx, http.MethodGet, "/api/likes", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	likes := decode[[]sdk.LikedFact](t, rec).Data
	require.Len(t, likes, 1)
	assert.Equal(t, id, likes[0].FactID)
	assert.Equal(t, "Cats have a third eyelid", likes[0].Fact)

	rec = perform(fx, http.MethodDelete, fmt.Sprintf("/api/likes/%d", id), "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = perform(fx, http.MethodDelete, fmt.Sprintf("/api/likes/%d", id), "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = perform(fx, http.MethodDelete, "/api/likes/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCacheDownServesStore(t *testing.T) {
	fx := apitest.New(t)
	addFact(t, fx, "Cats can jump six times their length")
	fx.StopCache()

	addFact(t, fx, "Cats spend a third of waking hours grooming")
	assert.Len(t, listFacts(t, fx), 2)

	rec := perform(fx, http.MethodGet, "/api/catfacts/random", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "store", decode[sdk.RandomFact](t, rec).Data.Source)
}

func TestEngineWithoutFetcher(t *testing.T) {
	fx := apitest.New(t)
	engine := api.NewEngine(utils.NewConfig(nil), api.Dependencies{
		Facts:    fx.Coordinator,
		Database: fx.Store,
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode[sdk.HealthStatus](t, rec).Data
	assert.Equal(t, "unknown", status.Upstream)
	assert.Equal(t, "down", status.Cache)

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/catfacts/fetch", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

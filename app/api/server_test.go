package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"goodstore/app/client/assistant"
	"goodstore/app/model"
	"goodstore/app/service/sessions"
	"goodstore/app/service/venues"
	"goodstore/app/service/viewport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backendFunc func(ctx context.Context, req assistant.Request) (*assistant.Response, error)

func (f backendFunc) Ask(ctx context.Context, req assistant.Request) (*assistant.Response, error) {
	return f(ctx, req)
}

var testVenues = []model.Venue{
	{ID: "v1", Name: "해녀의 집", Category: "해산물", Region: "구좌읍", AveragePrice: 25000, PriceTier: model.PriceModerate,
		Coordinates: &model.Coordinates{Lat: 33.5563, Lon: 126.7958}},
	{ID: "v2", Name: "카페 한라산", Category: "카페", Region: "한림읍", AveragePrice: 12000, PriceTier: model.PriceCheap},
}

func newServer(t *testing.T, backend backendFunc) *Server {
	t.Helper()

	venueService := venues.NewWith(testVenues)
	registry := sessions.NewRegistry(
		context.Background(),
		backend,
		venueService.All,
		viewport.NewQueueSize(16),
		sessions.Options{Timeout: time.Second, IdleTTL: time.Hour, MinPane: 100},
	)

	return NewServer(":0", venueService, registry)
}

func call(t *testing.T, s *Server, method, path string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(data, &out))

	return out
}

func createSession(t *testing.T, s *Server) sessions.View {
	t.Helper()

	status, data := call(t, s, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, status)

	return decode[sessions.View](t, data)
}

func TestCatalogAndVenues(t *testing.T) {
	s := newServer(t, nil)

	status, data := call(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(data), `"status":"ok"`)

	status, data = call(t, s, http.MethodGet, "/api/catalog/regions", nil)
	require.Equal(t, http.StatusOK, status)
	regions := decode[[]map[string]string](t, data)
	require.Len(t, regions, 25)
	assert.Equal(t, "101", regions[0]["code"])

	status, data = call(t, s, http.MethodGet, "/api/venues?category=08", nil)
	require.Equal(t, http.StatusOK, status)
	list := decode[[]model.Venue](t, data)
	require.Len(t, list, 1)
	assert.Equal(t, "v2", list[0].ID)

	status, data = call(t, s, http.MethodGet, "/api/venues?price_range="+url.QueryEscape("저렴함"), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"v2"}, venueIDs(decode[[]model.Venue](t, data)))

	status, data = call(t, s, http.MethodGet, "/api/venues?price_range=any", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"v1", "v2"}, venueIDs(decode[[]model.Venue](t, data)))

	status, _ = call(t, s, http.MethodGet, "/api/venues/v1", nil)
	assert.Equal(t, http.StatusOK, status)

	status, data = call(t, s, http.MethodGet, "/api/venues/nope", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", decode[ErrorResponse](t, data).Error)

	status, data = call(t, s, http.MethodGet, "/api/price-comparison", nil)
	require.Equal(t, http.StatusOK, status)
	stats := decode[map[string]venues.PriceStats](t, data)
	assert.Equal(t, 25000, stats["해산물"].AveragePrice)

	status, _ = call(t, s, http.MethodGet, "/api/price-comparison?category=19", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func venueIDs(list []model.Venue) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		out = append(out, v.ID)
	}
	return out
}

func TestCreateVenue(t *testing.T) {
	s := newServer(t, nil)

	status, data := call(t, s, http.MethodPost, "/api/venues", map[string]any{
		"name":       "우도 땅콩집",
		"category":   "카페",
		"price_tier": "저렴함",
		"rating":     4.2,
	})
	require.Equal(t, http.StatusCreated, status)
	created := decode[model.Venue](t, data)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.PriceCheap, created.PriceTier)

	status, _ = call(t, s, http.MethodGet, "/api/venues/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, status)

	status, data = call(t, s, http.MethodPost, "/api/venues", map[string]any{"id": "v1", "name": "중복"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "duplicate", decode[ErrorResponse](t, data).Error)

	status, data = call(t, s, http.MethodPost, "/api/venues", map[string]any{"category": "카페"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation_error", decode[ErrorResponse](t, data).Error)
}

func TestSessionFlow(t *testing.T) {
	s := newServer(t, func(ctx context.Context, req assistant.Request) (*assistant.Response, error) {
		answer := "국수집 추천"
		return &assistant.Response{
			Answer: &answer,
			Rows: []assistant.Row{{
				BsshNm:  "올레길 국수집",
				RnAdres: "제주시 조천읍",
				LaCrdnt: assistant.DegreeOf(33.5126),
				LoCrdnt: assistant.DegreeOf(126.5219),
			}},
		}, nil
	})

	view := createSession(t, s)
	base := "/api/sessions/" + view.ID

	status, data := call(t, s, http.MethodPost, base+"/submit", SubmitRequest{Question: "국수"})
	assert.Equal(t, http.StatusBadRequest, status, "wildcard filters")
	assert.Equal(t, "validation_error", decode[ErrorResponse](t, data).Error)

	status, _ = call(t, s, http.MethodPut, base+"/filters", FilterRequest{Field: "categoryCode", Value: "11"})
	require.Equal(t, http.StatusOK, status)
	status, _ = call(t, s, http.MethodPut, base+"/filters", FilterRequest{Field: "regionCode", Value: "121"})
	require.Equal(t, http.StatusOK, status)
	status, _ = call(t, s, http.MethodPut, base+"/filters", FilterRequest{Field: "color", Value: "red"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, data = call(t, s, http.MethodPost, base+"/submit", SubmitRequest{Question: "국수"})
	require.Equal(t, http.StatusAccepted, status)
	submitted := decode[sessions.View](t, data)
	require.NotEmpty(t, submitted.History)
	assert.Equal(t, "국수", submitted.History[0].Text)

	deadline := time.Now().Add(2 * time.Second)
	for {
		_, data = call(t, s, http.MethodGet, base, nil)
		view = decode[sessions.View](t, data)
		if !view.Loading && len(view.Rows) == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("answer was not applied")
		}
		time.Sleep(10 * time.Millisecond)
	}

	require.Len(t, view.History, 2)
	assert.Equal(t, "국수집 추천", view.History[1].Text)

	status, data = call(t, s, http.MethodPost, base+"/select", SelectRequest{ID: view.Rows[0].ID})
	require.Equal(t, http.StatusOK, status)
	selection := decode[sessions.Selection](t, data)
	require.NotNil(t, selection.Map.Center)
	assert.Equal(t, 16, selection.Map.Zoom)

	status, _ = call(t, s, http.MethodPost, base+"/select", SelectRequest{ID: "missing"})
	assert.Equal(t, http.StatusNotFound, status)

	status, data = call(t, s, http.MethodGet, base+"/map", nil)
	require.Equal(t, http.StatusOK, status)
	frame := decode[viewport.Frame](t, data)
	assert.Len(t, frame.Markers, 1)
	assert.Equal(t, 16, frame.Zoom)

	status, _ = call(t, s, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = call(t, s, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSubmitBusy(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	s := newServer(t, func(ctx context.Context, req assistant.Request) (*assistant.Response, error) {
		<-release
		return &assistant.Response{}, nil
	})

	view := createSession(t, s)
	base := "/api/sessions/" + view.ID

	call(t, s, http.MethodPut, base+"/filters", FilterRequest{Field: "categoryCode", Value: "11"})
	call(t, s, http.MethodPut, base+"/filters", FilterRequest{Field: "regionCode", Value: "121"})
	call(t, s, http.MethodPut, base+"/input", InputRequest{Text: "국수"})

	status, data := call(t, s, http.MethodPost, base+"/submit", SubmitRequest{})
	require.Equal(t, http.StatusAccepted, status)
	assert.True(t, decode[sessions.View](t, data).Loading)

	status, data = call(t, s, http.MethodPost, base+"/submit", SubmitRequest{Question: "또 국수"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "busy", decode[ErrorResponse](t, data).Error)
}

func TestPresentation(t *testing.T) {
	s := newServer(t, nil)
	base := "/api/sessions/" + createSession(t, s).ID

	status, data := call(t, s, http.MethodPost, base+"/chips/cheap", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, ChipResponse{Chip: "cheap", Active: true}, decode[ChipResponse](t, data))

	status, _ = call(t, s, http.MethodPost, base+"/chips/fancy", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, data = call(t, s, http.MethodPut, base+"/sort", SortRequest{Key: "rating"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "rating", string(decode[sessions.View](t, data).SortKey))

	status, _ = call(t, s, http.MethodPut, base+"/sort", SortRequest{})
	assert.Equal(t, http.StatusBadRequest, status)

	status, data = call(t, s, http.MethodPut, base+"/layout", LayoutRequest{PointerY: 20, ContainerHeight: 800})
	require.Equal(t, http.StatusOK, status)
	layout := decode[LayoutResponse](t, data)
	assert.InDelta(t, 0.125, layout.MapFraction, 1e-9)
	assert.InDelta(t, 0.875, layout.ListFraction, 1e-9)

	status, _ = call(t, s, http.MethodPut, base+"/layout", LayoutRequest{PointerY: 20})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, s, http.MethodGet, "/api/sessions/unknown", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

package viewport

import (
	"context"
	"math"
	"testing"
	"time"

	"goodstore/app/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	s := NewSynchronizer(16, 13)

	cmd := s.Compute(nil)
	assert.Nil(t, cmd.Center)
	assert.Equal(t, 13, cmd.Zoom)

	cmd = s.Compute(&model.Venue{Name: "좌표 없음"})
	assert.Nil(t, cmd.Center)
	assert.Equal(t, 13, cmd.Zoom)

	venue := model.Venue{
		Name:        "올레길 국수집",
		Coordinates: &model.Coordinates{Lat: 33.5126, Lon: 126.5219},
	}
	cmd = s.Compute(&venue)
	require.NotNil(t, cmd.Center)
	assert.Equal(t, model.Coordinates{Lat: 33.5126, Lon: 126.5219}, *cmd.Center)
	assert.Equal(t, 16, cmd.Zoom)

	cmd.Center.Lat = 0
	assert.Equal(t, 33.5126, venue.Coordinates.Lat, "command must not alias the venue")

	cmd = s.Compute(nil)
	assert.Nil(t, cmd.Center)
	assert.Equal(t, 16, cmd.Zoom, "zoom stays where the last selection left it")
}

func TestCompute_Malformed(t *testing.T) {
	s := NewSynchronizer(0, 0)

	cmd := s.Compute(&model.Venue{Coordinates: &model.Coordinates{Lat: math.NaN(), Lon: 126}})
	assert.Nil(t, cmd.Center)
	assert.Equal(t, InitialZoom, cmd.Zoom)

	initial := s.Initial()
	require.NotNil(t, initial.Center)
	assert.Equal(t, DefaultCenter, *initial.Center)
}

func TestMarkers(t *testing.T) {
	rows := []model.Venue{
		{Name: "a", Address: "제주시", Phone: "064-1", Coordinates: &model.Coordinates{Lat: 33.5, Lon: 126.5}},
		{Name: "b"},
		{Name: "c", Coordinates: &model.Coordinates{Lat: math.Inf(1), Lon: 126.5}},
		{Name: "d", Coordinates: &model.Coordinates{Lat: 33.2, Lon: 126.3}},
	}

	markers := Markers(rows)
	require.Len(t, markers, 2)
	assert.Equal(t, Marker{
		Lat:       33.5,
		Lon:       126.5,
		Label:     "a",
		Address:   "제주시",
		Phone:     "064-1",
		PopupText: "상호명: a\n주소: 제주시\n전화: 064-1",
	}, markers[0])
	assert.Equal(t, "d", markers[1].Label)

	frame := NewFrame(rows[1:2], Command{Zoom: 13})
	assert.NotNil(t, frame.Markers)
	assert.Empty(t, frame.Markers)
}

func TestQueue(t *testing.T) {
	q := NewQueueSize(1)

	q.Render("s1", Frame{Zoom: 1})
	q.Render("s1", Frame{Zoom: 2})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Job, 2)
	go q.Run(ctx, func(job Job) { got <- job })

	select {
	case job := <-got:
		assert.Equal(t, 1, job.Frame.Zoom, "second frame is dropped while the buffer is full")
	case <-time.After(time.Second):
		t.Fatal("frame not delivered")
	}

	require.NoError(t, q.Shutdown())
	require.NoError(t, q.Shutdown())
	q.Render("s1", Frame{Zoom: 3})
}

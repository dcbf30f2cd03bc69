package viewport

import (
	"fmt"

	"goodstore/app/model"

	"github.com/elliotchance/pie/v2"
)

const (
	SelectZoom  = 16
	InitialZoom = 13
)

// DefaultCenter is Jeju city, used only for a freshly opened map.
var DefaultCenter = model.Coordinates{Lat: 33.5111, Lon: 126.5277}

// Command tells the map where to look. A nil Center means "stay put".
type Command struct {
	Center *model.Coordinates `json:"center"`
	Zoom   int                `json:"zoom"`
}

type Marker struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Label     string  `json:"label"`
	Address   string  `json:"address,omitempty"`
	Phone     string  `json:"phone,omitempty"`
	PopupText string  `json:"popupText"`
}

// Frame is everything the map renderer needs for one redraw.
type Frame struct {
	Markers []Marker           `json:"markers"`
	Center  *model.Coordinates `json:"center"`
	Zoom    int                `json:"zoom"`
}

// Synchronizer derives viewport commands. It only remembers the last zoom
// so that a no-op command can report it unchanged.
type Synchronizer struct {
	selectZoom int
	zoom       int
}

func NewSynchronizer(selectZoom, initialZoom int) *Synchronizer {
	if selectZoom <= 0 {
		selectZoom = SelectZoom
	}
	if initialZoom <= 0 {
		initialZoom = InitialZoom
	}

	return &Synchronizer{
		selectZoom: selectZoom,
		zoom:       initialZoom,
	}
}

func (s *Synchronizer) Initial() Command {
	center := DefaultCenter
	return Command{Center: &center, Zoom: s.zoom}
}

// Compute recenters on a mappable selection and is a no-op otherwise.
func (s *Synchronizer) Compute(selection *model.Venue) Command {
	if selection == nil || !selection.Mappable() {
		return Command{Zoom: s.zoom}
	}

	s.zoom = s.selectZoom
	center := *selection.Coordinates

	return Command{Center: &center, Zoom: s.zoom}
}

func (s *Synchronizer) Zoom() int {
	return s.zoom
}

// Markers keeps only rows with usable coordinates.
func Markers(rows []model.Venue) []Marker {
	return pie.Map(
		pie.Filter(rows, func(v model.Venue) bool {
			return v.Mappable()
		}),
		func(v model.Venue) Marker {
			return Marker{
				Lat:       v.Coordinates.Lat,
				Lon:       v.Coordinates.Lon,
				Label:     v.Name,
				Address:   v.Address,
				Phone:     v.Phone,
				PopupText: popupText(v),
			}
		},
	)
}

func popupText(v model.Venue) string {
	text := fmt.Sprintf("상호명: %s", v.Name)
	if v.Address != "" {
		text += "\n주소: " + v.Address
	}
	if v.Phone != "" {
		text += "\n전화: " + v.Phone
	}

	return text
}

func NewFrame(rows []model.Venue, cmd Command) Frame {
	markers := Markers(rows)
	if markers == nil {
		markers = []Marker{}
	}

	return Frame{
		Markers: markers,
		Center:  cmd.Center,
		Zoom:    cmd.Zoom,
	}
}

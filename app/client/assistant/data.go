package assistant

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"goodstore/app/model"

	"github.com/elliotchance/pie/v2"
	"github.com/google/uuid"
)

type Request struct {
	Question string  `json:"question"`
	Filters  Filters `json:"filters"`
}

type Filters struct {
	IndutyType string `json:"indutyType"`
	EmdType    string `json:"emdType"`
}

type Response struct {
	// nil when the backend omitted the field
	Answer *string `json:"answer"`
	Rows   []Row   `json:"rows"`
}

type Row struct {
	BsshNm    string `json:"bsshNm"`
	RnAdres   string `json:"rnAdres"`
	BsshTelno string `json:"bsshTelno"`
	LaCrdnt   Degree `json:"laCrdnt"`
	LoCrdnt   Degree `json:"loCrdnt"`
}

// Degree is a lenient coordinate component. Malformed values decode as
// invalid instead of failing the whole response.
type Degree struct {
	Value float64
	Valid bool
}

func (d *Degree) UnmarshalJSON(data []byte) error {
	*d = Degree{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	switch v := raw.(type) {
	case float64:
		d.Value, d.Valid = v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil {
			d.Value, d.Valid = f, true
		}
	}

	return nil
}

func (d Degree) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}

	return json.Marshal(d.Value)
}

func DegreeOf(v float64) Degree {
	return Degree{Value: v, Valid: true}
}

var venueNamespace = uuid.MustParse("6f1d3c1e-52b4-4b8e-9a57-1f0c8f0b6a10")

// Venue converts the row; the id is derived from name, address and phone so
// the same place keeps its id across queries.
func (r Row) Venue() model.Venue {
	return r.venue(0)
}

// venue salts the id with n when the same place shows up more than once in
// one response. The first occurrence keeps the unsalted id.
func (r Row) venue(n int) model.Venue {
	key := r.BsshNm + "\x00" + r.RnAdres + "\x00" + r.BsshTelno
	if n > 0 {
		key += "\x00" + strconv.Itoa(n)
	}

	v := model.Venue{
		ID:      uuid.NewSHA1(venueNamespace, []byte(key)).String(),
		Name:    r.BsshNm,
		Address: r.RnAdres,
		Phone:   r.BsshTelno,
	}

	if r.LaCrdnt.Valid && r.LoCrdnt.Valid {
		coords := model.Coordinates{Lat: r.LaCrdnt.Value, Lon: r.LoCrdnt.Value}
		if coords.Valid() {
			v.Coordinates = &coords
		}
	}

	return v
}

// Venues converts every row. Ids are unique within the response.
func (r *Response) Venues() []model.Venue {
	seen := make(map[Row]int, len(r.Rows))

	return pie.Map(r.Rows, func(row Row) model.Venue {
		n := seen[row.identity()]
		seen[row.identity()] = n + 1

		return row.venue(n)
	})
}

func (r Row) identity() Row {
	return Row{BsshNm: r.BsshNm, RnAdres: r.RnAdres, BsshTelno: r.BsshTelno}
}

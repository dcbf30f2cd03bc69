package model

import (
	"encoding/json"
	"math"
	"strings"
)

type PriceTier string

const (
	PriceCheap     PriceTier = "cheap"
	PriceModerate  PriceTier = "moderate"
	PriceExpensive PriceTier = "expensive"
)

var priceTierLabels = map[PriceTier]string{
	PriceCheap:     "저렴함",
	PriceModerate:  "보통",
	PriceExpensive: "비쌈",
}

// ParsePriceTier accepts both the tier name and its Korean label.
// Unknown input yields the empty tier.
func ParsePriceTier(s string) PriceTier {
	s = strings.TrimSpace(s)
	for tier, label := range priceTierLabels {
		if strings.EqualFold(s, string(tier)) || s == label {
			return tier
		}
	}

	return ""
}

// UnmarshalYAML lets seed files use either "cheap" or "저렴함".
func (t *PriceTier) UnmarshalYAML(unmarshal func(any) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}

	*t = ParsePriceTier(raw)

	return nil
}

func (t *PriceTier) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*t = ParsePriceTier(raw)

	return nil
}

func (t PriceTier) Label() string {
	return priceTierLabels[t]
}

// Rank orders tiers from cheap to expensive, unknown tiers last.
func (t PriceTier) Rank() int {
	switch t {
	case PriceCheap:
		return 0
	case PriceModerate:
		return 1
	case PriceExpensive:
		return 2
	default:
		return 3
	}
}

type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) {
		return false
	}

	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

type Venue struct {
	ID           string       `json:"id" yaml:"id" validate:"required"`
	Name         string       `json:"name" yaml:"name" validate:"required"`
	Description  string       `json:"description,omitempty" yaml:"description"`
	Category     string       `json:"category,omitempty" yaml:"category"`
	PriceTier    PriceTier    `json:"price_tier,omitempty" yaml:"price_tier"`
	Region       string       `json:"region,omitempty" yaml:"region"`
	Rating       float64      `json:"rating,omitempty" yaml:"rating" validate:"gte=0,lte=5"`
	Price        string       `json:"price,omitempty" yaml:"price"`
	AveragePrice int          `json:"average_price,omitempty" yaml:"average_price" validate:"gte=0"`
	ImageURL     string       `json:"image_url,omitempty" yaml:"image_url"`
	Address      string       `json:"address,omitempty" yaml:"address"`
	Phone        string       `json:"phone,omitempty" yaml:"phone"`
	Coordinates  *Coordinates `json:"coordinates,omitempty" yaml:"coordinates"`
}

// Mappable reports whether the venue can be placed on the map.
func (v Venue) Mappable() bool {
	return v.Coordinates != nil && v.Coordinates.Valid()
}

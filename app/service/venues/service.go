package venues

import (
	_ "embed"
	"errors"
	"log/slog"
	"math"
	"os"
	"slices"
	"sync"

	"goodstore/app/config"
	"goodstore/app/model"
	"goodstore/app/service/filter"

	"github.com/elliotchance/pie/v2"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/samber/do"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

//go:embed venues.yaml
var seed []byte

var (
	ErrNotFound         = errors.New("맛집을 찾을 수 없습니다")
	ErrNothingToCompare = errors.New("비교할 맛집이 없습니다")
	ErrDuplicate        = errors.New("이미 등록된 맛집입니다")
)

type collection struct {
	Venues []model.Venue `yaml:"venues" validate:"dive"`
}

// Service is the local, read-only venue collection.
type Service struct {
	mu       sync.RWMutex
	venues   []model.Venue
	validate *validator.Validate
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	data := seed
	source := "embedded"

	if cfg.Venues.File != "" {
		fileData, err := os.ReadFile(cfg.Venues.File)
		if err != nil {
			return nil, oops.Errorf("failed to read venues file: %w", err)
		}
		data = fileData
		source = cfg.Venues.File
	}

	venues, err := Parse(data)
	if err != nil {
		return nil, err
	}

	slog.Info("Venues loaded", "source", source, "count", len(venues))

	return NewWith(venues), nil
}

func NewWith(venues []model.Venue) *Service {
	return &Service{
		venues:   slices.Clone(venues),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func Parse(data []byte) ([]model.Venue, error) {
	var result collection

	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse venues: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate venues: %w", err)
	}

	ids := pie.Map(result.Venues, func(v model.Venue) string { return v.ID })
	if len(pie.Unique(ids)) != len(ids) {
		return nil, oops.Errorf("duplicate venue id")
	}

	return result.Venues, nil
}

func (s *Service) All() []model.Venue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.venues)
}

func (s *Service) Get(id string) (model.Venue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := pie.FindFirstUsing(s.venues, func(v model.Venue) bool {
		return v.ID == id
	})
	if idx < 0 {
		return model.Venue{}, oops.
			Code("not_found").
			With("id", id).
			Wrap(ErrNotFound)
	}

	return s.venues[idx], nil
}

// Add registers a venue in memory. A missing id is generated. Added venues
// are gone after a restart.
func (s *Service) Add(v model.Venue) (model.Venue, error) {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}

	if err := s.validate.Struct(v); err != nil {
		return model.Venue{}, oops.
			Code("validation_error").
			With("id", v.ID).
			Wrapf(err, "invalid venue")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if pie.FindFirstUsing(s.venues, func(existing model.Venue) bool { return existing.ID == v.ID }) >= 0 {
		return model.Venue{}, oops.
			Code("duplicate").
			With("id", v.ID).
			Wrap(ErrDuplicate)
	}

	s.venues = append(s.venues, v)
	slog.Info("Venue added", "id", v.ID, "name", v.Name)

	return v, nil
}

func (s *Service) Filter(state filter.State) []model.Venue {
	return filter.DeriveVisible(s.All(), state)
}

type PricePoint struct {
	Name   string `json:"name"`
	Price  int    `json:"price"`
	Region string `json:"region"`
}

type PriceStats struct {
	AveragePrice    int        `json:"average_price"`
	RestaurantCount int        `json:"restaurant_count"`
	Cheapest        PricePoint `json:"cheapest"`
	MostExpensive   PricePoint `json:"most_expensive"`
}

// PriceComparison groups venues by category label. A wildcard code compares
// every category.
func (s *Service) PriceComparison(categoryCode string) (map[string]PriceStats, error) {
	state := filter.DefaultState()
	state, _ = state.With(filter.FieldCategory, categoryCode)

	venues := s.Filter(state)
	if len(venues) == 0 {
		return nil, oops.
			Code("not_found").
			With("category", categoryCode).
			Wrap(ErrNothingToCompare)
	}

	groups := make(map[string][]model.Venue)
	for _, v := range venues {
		groups[v.Category] = append(groups[v.Category], v)
	}

	result := make(map[string]PriceStats, len(groups))
	for category, group := range groups {
		total := 0
		cheapest, priciest := group[0], group[0]

		for _, v := range group {
			total += v.AveragePrice
			if v.AveragePrice < cheapest.AveragePrice {
				cheapest = v
			}
			if v.AveragePrice > priciest.AveragePrice {
				priciest = v
			}
		}

		result[category] = PriceStats{
			AveragePrice:    int(math.Round(float64(total) / float64(len(group)))),
			RestaurantCount: len(group),
			Cheapest:        pricePoint(cheapest),
			MostExpensive:   pricePoint(priciest),
		}
	}

	return result, nil
}

func pricePoint(v model.Venue) PricePoint {
	return PricePoint{Name: v.Name, Price: v.AveragePrice, Region: v.Region}
}

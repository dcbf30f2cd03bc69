package api

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type FilterRequest struct {
	Field string `json:"field" validate:"required,oneof=searchText categoryCode regionCode priceRange"`
	Value string `json:"value"`
}

type InputRequest struct {
	Text string `json:"text"`
}

// SubmitRequest falls back to the stored input text when Question is blank.
type SubmitRequest struct {
	Question string `json:"question"`
}

type SelectRequest struct {
	ID string `json:"id" validate:"required"`
}

type SortRequest struct {
	Key string `json:"key" validate:"required"`
}

type LayoutRequest struct {
	PointerY        float64 `json:"pointerY"`
	ContainerHeight float64 `json:"containerHeight" validate:"gt=0"`
}

type LayoutResponse struct {
	MapFraction  float64 `json:"mapFraction"`
	ListFraction float64 `json:"listFraction"`
}

type ChipResponse struct {
	Chip   string `json:"chip"`
	Active bool   `json:"active"`
}

package session

import (
	"errors"
	"strings"

	"goodstore/app/catalog"
	"goodstore/app/service/filter"

	"github.com/samber/oops"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrBusy          = errors.New("a question is already being answered")
	ErrUnknownTicket = errors.New("ticket does not match the request in flight")
)

// validate checks a submit before anything is mutated. The backend needs a
// question plus both a category and a region.
func validate(question string, filters filter.State) error {
	var problems []string

	if question == "" {
		problems = append(problems, "question is required")
	}
	if catalog.IsWildcard(filters.CategoryCode) {
		problems = append(problems, "category is required")
	}
	if catalog.IsWildcard(filters.RegionCode) {
		problems = append(problems, "region is required")
	}

	if len(problems) == 0 {
		return nil
	}

	return oops.
		Code("validation_error").
		With("problems", problems).
		Wrapf(ErrValidation, "%s", strings.Join(problems, "; "))
}

package query

import (
	"math"

	"rpgroster/errx"
	"rpgroster/models"
)

const (
	DefaultPageSize = 3
	DefaultOrder    = models.OrderID
)

// PageRequest selects the Number-th page (0-based) of Size rows sorted
// ascending by Order, ties broken by id.
type PageRequest struct {
	Number int
	Size   int
	Order  models.PlayerOrder
}

func DefaultPage() PageRequest {
	return PageRequest{Number: 0, Size: DefaultPageSize, Order: DefaultOrder}
}

func (r PageRequest) Validate() error {
	if r.Number < 0 {
		return errx.ErrBadRequest.WithMsg("pageNumber must not be negative").WithData("field", "pageNumber")
	}
	if r.Size < 1 {
		return errx.ErrBadRequest.WithMsg("pageSize must be at least 1").WithData("field", "pageSize")
	}
	if r.Order != "" {
		if _, err := models.ParsePlayerOrder(string(r.Order)); err != nil {
			return errx.ErrBadRequest.WithMsg(err.Error()).WithData("field", "order")
		}
	}
	return nil
}

// Offset returns the index of the page's first row. ok is false when the
// page can hold no rows, including when the index is not representable.
func (r PageRequest) Offset() (offset int, ok bool) {
	if r.Number < 0 || r.Size < 1 {
		return 0, false
	}
	if r.Number > math.MaxInt/r.Size {
		return 0, false
	}
	return r.Number * r.Size, true
}

// SortOrder returns the canonical Order, falling back to the default.
func (r PageRequest) SortOrder() models.PlayerOrder {
	if o, err := models.ParsePlayerOrder(string(r.Order)); err == nil {
		return o
	}
	return DefaultOrder
}

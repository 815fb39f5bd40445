package params

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"schedbot/core/constants"
)

// QueryParams carries page/limit pagination parsed from the request.
type QueryParams struct {
	PageNumber int
	PageSize   int
}

func NewQueryParams(ctx echo.Context) *QueryParams {
	page, err := strconv.Atoi(ctx.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}

	size, err := strconv.Atoi(ctx.QueryParam("limit"))
	if err != nil || size < 1 {
		size = constants.DefaultQueryLimit
	}
	if size > constants.MaxQueryLimit {
		size = constants.MaxQueryLimit
	}

	return &QueryParams{PageNumber: page, PageSize: size}
}

// Offset converts the page number into a row offset.
func (p *QueryParams) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}

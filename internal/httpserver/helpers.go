package httpserver

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_admin/internal/repo"
	"github.com/Skotchmaster/shop_admin/internal/util"
)

const HeaderTotalCount = "X-Total-Count"

// pageFromQuery returns an unbounded page unless page or size is given.
func pageFromQuery(c echo.Context) repo.Page {
	if c.QueryParam("page") == "" && c.QueryParam("size") == "" {
		return repo.Page{}
	}
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)
	return repo.Page{Offset: offset, Limit: limit}
}

func setTotal(c echo.Context, total int64) {
	c.Response().Header().Set(HeaderTotalCount, strconv.FormatInt(total, 10))
}

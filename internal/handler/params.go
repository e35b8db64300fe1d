package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/fintrack/fintrack-backend/internal/analytics"
	"github.com/fintrack/fintrack-backend/internal/domain"
	"github.com/fintrack/fintrack-backend/internal/service"
	"github.com/fintrack/fintrack-backend/internal/util"
	"github.com/labstack/echo/v4"
)

// parseID reads a positive int32 path parameter
func parseID(c echo.Context, name string) (int32, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 32)
	if err != nil || id <= 0 {
		return 0, false
	}
	return int32(id), true
}

// parseDate parses a YYYY-MM-DD value
func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

// parseTimestamp accepts either RFC 3339 or YYYY-MM-DD
func parseTimestamp(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return parseDate(value)
}

// parseOptionalDate reads a YYYY-MM-DD query parameter. Missing values yield nil.
func parseOptionalDate(c echo.Context, name string) (*time.Time, *ValidationError) {
	value := c.QueryParam(name)
	if value == "" {
		return nil, nil
	}
	t, err := parseDate(value)
	if err != nil {
		return nil, &ValidationError{Field: name, Message: "Must be in YYYY-MM-DD format"}
	}
	return &t, nil
}

// parseWindow reads startDate and endDate query parameters. A missing side
// falls back to the bounds of fallback; the end date covers its whole day.
func parseWindow(c echo.Context, fallback analytics.Window) (analytics.Window, []ValidationError) {
	var errs []ValidationError
	window := fallback

	start, verr := parseOptionalDate(c, "startDate")
	if verr != nil {
		errs = append(errs, *verr)
	} else if start != nil {
		window.Start = util.StartOfDay(*start)
	}

	end, verr := parseOptionalDate(c, "endDate")
	if verr != nil {
		errs = append(errs, *verr)
	} else if end != nil {
		window.End = util.EndOfDay(*end)
	}

	if len(errs) == 0 && window.Start.After(window.End) {
		errs = append(errs, ValidationError{Field: "startDate", Message: "Start date cannot be after end date"})
	}
	return window, errs
}

// parseMonths reads the months query parameter, clamped to the supported range
func parseMonths(c echo.Context, fallback int) int {
	months := fallback
	if value := c.QueryParam("months"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			months = parsed
		}
	}
	return service.ClampMonths(months)
}

// parseLimit reads the limit query parameter, keeping it within [1, max]
func parseLimit(c echo.Context, fallback, max int) int {
	limit := fallback
	if value := c.QueryParam("limit"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > max {
		limit = max
	}
	return limit
}

// parseBool reads a boolean query parameter
func parseBool(c echo.Context, name string) bool {
	b, err := strconv.ParseBool(c.QueryParam(name))
	return err == nil && b
}

// parseTransactionFilters reads the listing filters and pagination
func parseTransactionFilters(c echo.Context) (*domain.TransactionFilters, []ValidationError) {
	var errs []ValidationError
	filters := &domain.TransactionFilters{
		Page:     1,
		PageSize: domain.DefaultPageSize,
	}

	if start, verr := parseOptionalDate(c, "startDate"); verr != nil {
		errs = append(errs, *verr)
	} else if start != nil {
		s := util.StartOfDay(*start)
		filters.StartDate = &s
	}
	if end, verr := parseOptionalDate(c, "endDate"); verr != nil {
		errs = append(errs, *verr)
	} else if end != nil {
		e := util.EndOfDay(*end)
		filters.EndDate = &e
	}

	if value := c.QueryParam("type"); value != "" {
		txType := domain.TransactionType(strings.ToUpper(value))
		if !txType.IsValid() {
			errs = append(errs, ValidationError{Field: "type", Message: "Must be INCOME or EXPENSE"})
		} else {
			filters.Type = &txType
		}
	}

	if value := c.QueryParam("categoryId"); value != "" {
		id, err := strconv.ParseInt(value, 10, 32)
		if err != nil || id <= 0 {
			errs = append(errs, ValidationError{Field: "categoryId", Message: "Must be a positive integer"})
		} else {
			categoryID := int32(id)
			filters.CategoryID = &categoryID
		}
	}

	if value := c.QueryParam("page"); value != "" {
		page, err := strconv.ParseInt(value, 10, 32)
		if err != nil || page < 1 {
			errs = append(errs, ValidationError{Field: "page", Message: "Must be a positive integer"})
		} else {
			filters.Page = int32(page)
		}
	}
	if value := c.QueryParam("pageSize"); value != "" {
		size, err := strconv.ParseInt(value, 10, 32)
		if err != nil || size < 1 || size > domain.MaxPageSize {
			errs = append(errs, ValidationError{Field: "pageSize", Message: "Must be between 1 and 100"})
		} else {
			filters.PageSize = int32(size)
		}
	}

	if len(errs) == 0 && filters.StartDate != nil && filters.EndDate != nil && filters.StartDate.After(*filters.EndDate) {
		errs = append(errs, ValidationError{Field: "startDate", Message: "Start date cannot be after end date"})
	}
	return filters, errs
}

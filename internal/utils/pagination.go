package utils

import (
	"math"
	"strconv"
)

const (
	maxPerPage = 100
	// maxPage keeps (page-1)*perPage inside int.
	maxPage = math.MaxInt / maxPerPage
)

type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func NewPagination(page, perPage int, total int64) Pagination {
	page, perPage = normalizePage(page, perPage)
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	return Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      int(total),
		TotalPages: totalPages,
	}
}

// ParsePage reads page/per_page query values, falling back to 1 and
// defaultPerPage and capping per_page.
func ParsePage(pageRaw, perPageRaw string, defaultPerPage int) (page, perPage int) {
	page = parseIntDefault(pageRaw, 1)
	perPage = parseIntDefault(perPageRaw, defaultPerPage)
	return normalizePage(page, perPage)
}

func Offset(page, perPage int) int {
	page, perPage = normalizePage(page, perPage)
	return (page - 1) * perPage
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if perPage <= 0 {
		perPage = 10
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

func parseIntDefault(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

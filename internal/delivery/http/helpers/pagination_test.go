package helpers

import (
	"net/http/httptest"
	"testing"

	"campuseventhub/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantPage     int
		wantPageSize int
	}{
		{"defaults", "", 1, 20},
		{"explicit", "?page=3&page_size=50", 3, 50},
		{"clamped to max", "?page_size=500", 1, 100},
		{"non-numeric ignored", "?page=abc&page_size=xyz", 1, 20},
		{"zero and negative ignored", "?page=0&page_size=-5", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/events"+tt.query, nil)
			params := ParsePagination(r)
			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantPageSize, params.PageSize)
		})
	}
}

func TestParseEventFilter(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantFilter   domain.EventFilter
		wantErrorMsg string
	}{
		{"empty", "", domain.EventFilter{}, ""},
		{"search only", "?search=ai", domain.EventFilter{Search: "ai"}, ""},
		{"category", "?category=workshop", domain.EventFilter{Category: domain.CategoryWorkshop}, ""},
		{"all is no filter", "?category=all", domain.EventFilter{}, ""},
		{"unknown category", "?category=karaoke", domain.EventFilter{}, "invalid category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/events"+tt.query, nil)
			filter, msg := ParseEventFilter(r)
			assert.Equal(t, tt.wantFilter, filter)
			assert.Equal(t, tt.wantErrorMsg, msg)
		})
	}
}

func TestNewPaginationMeta(t *testing.T) {
	meta := NewPaginationMeta(2, 20, 41)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 20, meta.PageSize)
	assert.Equal(t, 41, meta.Total)
	assert.Equal(t, 3, meta.TotalPages)

	assert.Equal(t, 0, NewPaginationMeta(1, 20, 0).TotalPages)
}

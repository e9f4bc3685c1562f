package shared

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(3, 20, 45)
	assert.Equal(t, Pagination{Page: 3, PerPage: 20, Total: 45, TotalPages: 3}, p)
	assert.Equal(t, 40, p.Offset())

	p = NewPagination(0, 0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, 0, p.TotalPages)

	assert.Equal(t, 200, NewPagination(1, 5000, 10).PerPage)
}

func TestPageParams(t *testing.T) {
	page, perPage := PageParams(url.Values{"page": {"2"}, "per_page": {"50"}})
	assert.Equal(t, 2, page)
	assert.Equal(t, 50, perPage)

	page, perPage = PageParams(url.Values{"page": {"x"}})
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, perPage)
}

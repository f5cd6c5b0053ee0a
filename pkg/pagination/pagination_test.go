package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	p := Params{Page: 0, PerPage: 1000}
	p.Normalize()

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, maxPerPage, p.PerPage)

	p = Params{Page: 3, PerPage: 0}
	p.Normalize()
	assert.Equal(t, defaultPerPage, p.PerPage)
	assert.Equal(t, 40, p.Offset())
}

func TestNewResult(t *testing.T) {
	res := NewResult[int](nil, Params{Page: 2, PerPage: 10}, 25)

	assert.Equal(t, []int{}, res.Items)
	assert.Equal(t, 3, res.Pagination.TotalPages)
	assert.True(t, res.Pagination.HasNext)
	assert.True(t, res.Pagination.HasPrev)
}

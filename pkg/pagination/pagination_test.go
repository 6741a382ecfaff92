package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_Defaults(t *testing.T) {
	p := Params{}.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)
}

func TestNormalize_CapsPageSize(t *testing.T) {
	p := Params{Page: 2, PageSize: 10_000}.Normalize()
	assert.Equal(t, MaxPageSize, p.PageSize)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Params{Page: 1, PageSize: 25}.Offset())
	assert.Equal(t, 50, Params{Page: 3, PageSize: 25}.Offset())
	assert.Equal(t, 0, Params{Page: -4, PageSize: 25}.Offset())
}

func TestNewPage(t *testing.T) {
	page := NewPage([]int{1, 2, 3}, Params{Page: 2, PageSize: 3}, 9)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.PageSize)
	assert.EqualValues(t, 9, page.Total)
}

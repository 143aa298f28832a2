package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "catalog:gen:biz-1", generationKey("biz-1"))
	assert.Equal(t, "catalog:list:biz-1:3:p=1&l=50", listKey("biz-1", 3, "p=1&l=50"))
	assert.NotEqual(t, listKey("biz-1", 3, "k"), listKey("biz-1", 4, "k"))
}

package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomMapKey(t *testing.T) {
	a := CustomMap{"size": "large", "cheese": "extra", "sauce": "bbq"}
	b := CustomMap{"sauce": "bbq", "size": "large", "cheese": "extra"}
	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, "cheese=extra;sauce=bbq;size=large", a.Key())

	assert.Equal(t, "", CustomMap{}.Key())
	assert.Equal(t, "", CustomMap(nil).Key())

	assert.NotEqual(t, CustomMap{"size": "large"}.Key(), CustomMap{"size": "small"}.Key())
}

package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUnit_IgnoraMayusculasYEspacios(t *testing.T) {
	for _, v := range []string{"unidad", "Unidad", " UNIDAD "} {
		assert.True(t, (&ProductPresentation{Variant: v}).IsUnit(), v)
	}
	for _, v := range []string{"unidades", "pack", ""} {
		assert.False(t, (&ProductPresentation{Variant: v}).IsUnit(), v)
	}
}

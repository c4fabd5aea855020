package handlers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateStruct(t *testing.T) {
	type request struct {
		Direction string  `validate:"oneof=next prev"`
		Reason    *string `validate:"omitempty,max=5"`
	}

	short := "viaje"
	long := strings.Repeat("a", 6)

	assert.NoError(t, ValidateStruct(request{Direction: "next"}))
	assert.NoError(t, ValidateStruct(request{Direction: "prev", Reason: &short}))
	assert.Error(t, ValidateStruct(request{Direction: "sideways"}))
	assert.Error(t, ValidateStruct(request{Direction: ""}))
	assert.Error(t, ValidateStruct(request{Direction: "next", Reason: &long}))
}

package validator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type point struct {
	Lat float64 `validate:"finite,min=-90,max=90"`
	Lon float64 `validate:"finite,min=-180,max=180"`
}

func TestValidate_Finite(t *testing.T) {
	assert.NoError(t, Validate(point{Lat: 59.9, Lon: 10.7}))
	assert.Error(t, Validate(point{Lat: math.NaN(), Lon: 10.7}))
	assert.Error(t, Validate(point{Lat: 59.9, Lon: math.Inf(1)}))
	assert.Error(t, Validate(point{Lat: 95, Lon: 10.7}))
}

type bbox struct {
	MinLat float64 `json:"min_lat" validate:"finite,min=-90,max=90"`
	Zoom   int     `json:"zoom" validate:"min=0,max=22"`
}

func TestFields(t *testing.T) {
	err := Validate(bbox{MinLat: math.NaN(), Zoom: 30})
	assert.Equal(t, map[string]string{"min_lat": "finite", "zoom": "max"}, Fields(err))

	assert.Nil(t, Fields(nil))
	assert.Nil(t, Fields(assert.AnError))
}

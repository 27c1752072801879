package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUser_KeepsFieldsVerbatim(t *testing.T) {
	tests := []struct {
		name string
		age  int
	}{
		{"Shanmukh", 21},
		{"", 0},
		{"negative", -5},
		{"big", math.MaxInt},
	}

	for _, tt := range tests {
		u := NewUser(tt.name, tt.age)
		assert.Equal(t, tt.name, u.Name)
		assert.Equal(t, tt.age, u.Age)

		v := NewVehicle(tt.name, tt.age)
		assert.Equal(t, tt.name, v.Name)
		assert.Equal(t, tt.age, v.Age)
	}
}

func TestRecordString(t *testing.T) {
	assert.Equal(t, "Shanmukh is 21 years old", NewUser("Shanmukh", 21).String())
	assert.Equal(t, "Car is 2024 years old", NewVehicle("Car", 2024).String())
	assert.Equal(t, "Bike is 2000 years old", NewVehicle("Bike", 2000).String())
	assert.Equal(t, "Newborn is 0 years old", NewUser("Newborn", 0).String())
	assert.Equal(t, "Old is 9223372036854775807 years old", NewUser("Old", math.MaxInt64).String())
}

func TestRecordString_Stable(t *testing.T) {
	u := NewUser("Shanmukh", 21)
	assert.Equal(t, u.String(), u.String())
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordRoundTrip(t *testing.T) {
	h := HashPassword("Abc123")
	assert.NotEqual(t, "Abc123", h)
	assert.True(t, CheckPassword("Abc123", h))
	assert.False(t, CheckPassword("abc123", h))
}

func TestIsUUID(t *testing.T) {
	assert.True(t, IsUUID(NewID()))
	assert.True(t, IsUUID("3f1c2a7e-8a55-4c1e-9a4b-2d5f0c3e9b10"))
	assert.False(t, IsUUID("blue_jeans"))
	assert.False(t, IsUUID("3f1c2a7e8a554c1e9a4b2d5f0c3e9b10"))
	assert.False(t, IsUUID("{3f1c2a7e-8a55-4c1e-9a4b-2d5f0c3e9b10}"))
}

package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, 404, CodeOf(NotFound("x")))
	assert.Equal(t, 400, CodeOf(Conflict("Key (title)=(a) already exists.", errors.New("dup"))))
	assert.Equal(t, 500, CodeOf(errors.New("plain")))
	assert.Equal(t, 403, CodeOf(fmt.Errorf("wrapped: %w", Forbidden("no"))))
}

func TestErrorMessageAndUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal("unexpected error, check server logs", cause)
	assert.Equal(t, "unexpected error, check server logs", err.Error())
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, "Unauthorized", (&Error{Code: 401}).Error())
	assert.True(t, IsUnauthorized(Unauthorized("")))
	assert.True(t, IsForbidden(Forbidden("")))
	assert.False(t, IsNotFound(BadRequest("")))
}

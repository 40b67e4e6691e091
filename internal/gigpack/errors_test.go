package gigpack

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mwaldr/gigpack-server/internal/repository"
)

func TestStageErrorWrapping(t *testing.T) {
	err := stageFail("roles", repository.ErrInvalidReference)
	assert.EqualError(t, err, "save stage roles: invalid reference")
	assert.True(t, errors.Is(err, repository.ErrInvalidReference))

	var se *StageError
	assert.True(t, errors.As(err, &se))
	assert.Equal(t, "roles", se.Stage)
}

func TestStageFailNilPassthrough(t *testing.T) {
	assert.NoError(t, stageFail("header", nil))
}

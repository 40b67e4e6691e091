package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil passes through", nil, nil},
		{"duplicate entry", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, ErrConflict},
		{"missing referenced row", &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}, ErrInvalidReference},
		{"other mysql error unchanged", &mysql.MySQLError{Number: 1054, Message: "Unknown column"}, nil},
		{"non-mysql error unchanged", errors.New("boom"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.in)
			if tt.want != nil {
				assert.ErrorIs(t, got, tt.want)
				return
			}
			assert.Equal(t, tt.in, got)
		})
	}
}

func TestClassifyUnwrapsWrappedDriverErrors(t *testing.T) {
	wrapped := fmt.Errorf("insert role: %w", &mysql.MySQLError{Number: 1452})
	assert.ErrorIs(t, Classify(wrapped), ErrInvalidReference)
}

package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestGetUserIDAcceptedTypes(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  uint64
	}{
		{"uint64", uint64(5), 5},
		{"int", int(6), 6},
		{"int64", int64(7), 7},
		{"float64 from jwt claims", float64(8), 8},
		{"numeric string", "9", 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContext(t)
			c.Set("user_id", tt.value)
			got, err := getUserID(c)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetUserIDRejectsMissingOrBadValues(t *testing.T) {
	c := newTestContext(t)
	_, err := getUserID(c)
	assert.Error(t, err)

	c.Set("user_id", "not-a-number")
	_, err = getUserID(c)
	assert.Error(t, err)
}

func TestPathID(t *testing.T) {
	c := newTestContext(t)
	c.SetParamNames("id")
	c.SetParamValues("41")
	id, ok := pathID(c, "id")
	require.True(t, ok)
	assert.Equal(t, uint64(41), id)

	for _, bad := range []string{"", "abc", "0", "-3"} {
		c.SetParamValues(bad)
		_, ok := pathID(c, "id")
		assert.False(t, ok, "value %q should be rejected", bad)
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwaldr/gigpack-server/internal/utils"
)

const testSecret = "unit-test-secret"

func invokeJWT(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/gigs", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	err := JWTAuth(testSecret)(next)(c)
	return rec, c, err
}

func TestJWTAuthMissingHeader(t *testing.T) {
	rec, _, err := invokeJWT(t, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing bearer token")
}

func TestJWTAuthMalformedToken(t *testing.T) {
	rec, _, err := invokeJWT(t, "Bearer not.a.jwt")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid token")
}

func TestJWTAuthWrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("other-secret", 7, 5)
	require.NoError(t, err)
	rec, _, err := invokeJWT(t, "Bearer "+at.Token)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthValidTokenSetsUserID(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 7, 5)
	require.NoError(t, err)
	rec, c, err := invokeJWT(t, "Bearer "+at.Token)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	// MapClaims decode numbers as float64.
	assert.Equal(t, float64(7), c.Get("user_id"))
}

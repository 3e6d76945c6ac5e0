package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/georgemunganga/cloture-backend/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:     "test-secret",
		TokenTTL:      time.Hour,
		BcryptCost:    bcrypt.MinCost,
		AdminPseudo:   "admin",
		AdminPassword: "admin-pass",
	}
}

func TestNew_BootstrapsAdmin(t *testing.T) {
	stores := MemoryStores()
	_, err := New(context.Background(), testConfig(), zerolog.Nop(), stores)
	require.NoError(t, err)

	u, err := stores.Users.GetUserByPseudo(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", string(u.Role))

	// A second start leaves the existing account alone.
	_, err = New(context.Background(), testConfig(), zerolog.Nop(), stores)
	require.NoError(t, err)
}

func TestNew_RoutesAreGuarded(t *testing.T) {
	buf := &bytes.Buffer{}
	h, err := New(context.Background(), testConfig(), zerolog.New(buf), MemoryStores())
	require.NoError(t, err)

	for _, path := range []string{"/transactions", "/users/utilisateurs", "/rapports?periode=mois&mois=2024-03"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, buf.String(), `"path":"/health"`)
}

func TestNew_AdminCanListAfterLogin(t *testing.T) {
	h, err := New(context.Background(), testConfig(), zerolog.Nop(), MemoryStores())
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/users/connexion",
		strings.NewReader(`{"pseudo":"admin","mot_de_passe":"admin-pass"}`)))
	require.Equal(t, http.StatusOK, rr.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &login))

	req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"transactions":[]}`, rr.Body.String())
}

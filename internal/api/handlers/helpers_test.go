package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zatekoja/clinicbooking/backend/internal/api/middleware"
	"github.com/zatekoja/clinicbooking/backend/internal/domain/entities"
)

var (
	patientClaims = &entities.TokenClaims{UserID: "user-1", Phone: "+963900000001", Role: entities.RolePatient}
	adminClaims   = &entities.TokenClaims{UserID: "admin-1", Username: "admin", Role: entities.RoleAdmin}
)

// newRequest builds a request as the router would hand it to a handler after
// RequireAuth, with claims in the context when given
func newRequest(method, target, body string, claims *entities.TokenClaims) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if claims != nil {
		req = req.WithContext(middleware.ContextWithClaims(req.Context(), claims))
	}
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(dst))
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decodeBody(t, w, &body)
	return body["error"]
}


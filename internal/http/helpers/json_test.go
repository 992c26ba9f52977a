package helpers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httperrors "github.com/CardChase151/clients-sub001/internal/http/errors"
)

func TestReadJSON(t *testing.T) {
	var v struct {
		Email string `json:"email"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@x.com","extra":1}`))
	require.NoError(t, ReadJSON(httptest.NewRecorder(), r, &v))
	assert.Equal(t, "a@x.com", v.Email)
}

func TestReadJSON_Invalid(t *testing.T) {
	for name, body := range map[string]string{
		"malformed": "{email:",
		"truncated": `{"email":`,
		"not json":  "hello",
	} {
		t.Run(name, func(t *testing.T) {
			var v map[string]any
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
			err := ReadJSON(httptest.NewRecorder(), r, &v)
			assert.Equal(t, httperrors.ErrInvalidJSON.Code, httperrors.FromError(err).Code)
		})
	}
}

func TestReadJSON_EmptyBodyIsEmptyObject(t *testing.T) {
	for name, body := range map[string]string{
		"empty":      "",
		"whitespace": " \n\t",
	} {
		t.Run(name, func(t *testing.T) {
			v := struct {
				UserID string `json:"userId"`
			}{}
			r := httptest.NewRequest(http.MethodDelete, "/", strings.NewReader(body))
			require.NoError(t, ReadJSON(httptest.NewRecorder(), r, &v))
			assert.Empty(t, v.UserID)
		})
	}
}

func TestReadJSON_TooLarge(t *testing.T) {
	body := `{"pdfBase64":"` + strings.Repeat("A", MaxBodyBytes) + `"}`
	var v map[string]any
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	err := ReadJSON(httptest.NewRecorder(), r, &v)

	app := httperrors.FromError(err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, app.HTTPStatus)
}

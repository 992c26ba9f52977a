package resend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CardChase151/clients-sub001/internal/mail"
)

func TestSend_EncodesAttachment(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":"49a3999c-0ce1-4ea6-ab68-afcd6dc2e794"}`))
	}))
	defer srv.Close()

	res, err := New(srv.URL, "re_test", time.Second).Send(context.Background(), mail.Message{
		From:        "team@x.com",
		To:          []string{"ana@x.com"},
		Subject:     "Hi",
		HTML:        "<p>hi</p>",
		Attachments: []mail.Attachment{{Filename: "m.pdf", Content: []byte("%PDF")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "49a3999c-0ce1-4ea6-ab68-afcd6dc2e794", res.ID)

	assert.Equal(t, "team@x.com", got["from"])
	assert.Equal(t, []any{"ana@x.com"}, got["to"])
	assert.Equal(t, []any{map[string]any{"filename": "m.pdf", "content": "JVBERg=="}}, got["attachments"])
}

func TestSend_NoAttachmentsOmitsField(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":"x"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "k", time.Second).Send(context.Background(), mail.Message{To: []string{"a@x.com"}})
	require.NoError(t, err)
	_, present := got["attachments"]
	assert.False(t, present)
}

func TestSend_Rejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid ` + "`to`" + ` field."}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "k", time.Second).Send(context.Background(), mail.Message{})
	var me *mail.Error
	require.True(t, errors.As(err, &me))
	assert.Equal(t, "validation_error", me.Name)
	assert.Equal(t, "Invalid `to` field.", mail.ErrorMessage(err))
}

func TestListEmails_PassesRecordsThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"e1","last_event":"delivered","extra":{"k":1}}]}`))
	}))
	defer srv.Close()

	emails, err := New(srv.URL, "k", time.Second).ListEmails(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, emails, 1)
	assert.JSONEq(t, `{"id":"e1","last_event":"delivered","extra":{"k":1}}`, string(emails[0]))
}

func TestListEmails_EmptyDataIsEmptySlice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"object":"list"}`))
	}))
	defer srv.Close()

	emails, err := New(srv.URL, "k", time.Second).ListEmails(context.Background(), 100)
	require.NoError(t, err)
	assert.NotNil(t, emails)
	assert.Empty(t, emails)
}

func TestNew_DefaultBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, New("", "k", 0).baseURL)
}

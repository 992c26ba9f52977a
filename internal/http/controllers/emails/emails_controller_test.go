package emails

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	svc "github.com/CardChase151/clients-sub001/internal/http/services/emails"
	"github.com/CardChase151/clients-sub001/internal/mail"
	"github.com/CardChase151/clients-sub001/internal/testutil/fakes"
)

func newController(m *fakes.Mailer, st *fakes.Store, adminTo string) *EmailsController {
	deps := svc.Deps{From: "team@x.com", AdminNotify: adminTo}
	if m != nil {
		deps.Sender, deps.Lister = m, m
	}
	if st != nil {
		deps.History = st
	}
	return NewControllers(svc.NewServices(deps)).Emails
}

func do(h http.HandlerFunc, method, body string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, "/api/x", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)

	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestStatus_ListsRecentEmails(t *testing.T) {
	calls := &fakes.Calls{}
	m := &fakes.Mailer{Calls: calls, Listed: []json.RawMessage{
		json.RawMessage(`{"id":"e1","last_event":"delivered"}`),
		json.RawMessage(`{"id":"e2"}`),
	}}
	rec, out := do(newController(m, nil, "").Status, http.MethodGet, "")

	require.Equal(t, http.StatusOK, rec.Code)
	emails := out["emails"].([]any)
	require.Len(t, emails, 2)
	assert.Equal(t, "delivered", emails[0].(map[string]any)["last_event"])
	assert.Equal(t, []string{"mail.list:100"}, calls.All())
}

func TestStatus_EmptyListIsArray(t *testing.T) {
	m := &fakes.Mailer{Calls: &fakes.Calls{}, Listed: []json.RawMessage{}}
	rec, _ := do(newController(m, nil, "").Status, http.MethodGet, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"emails":[]}`, rec.Body.String())
}

func TestStatus_Errors(t *testing.T) {
	rec, out := do(newController(nil, nil, "").Status, http.MethodGet, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server configuration error", out["error"])

	m := &fakes.Mailer{Calls: &fakes.Calls{}, ListErr: &mail.Error{Status: 401, Message: "API key is invalid"}}
	rec, out = do(newController(m, nil, "").Status, http.MethodGet, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "API key is invalid", out["error"])

	rec, _ = do(newController(m, nil, "").Status, http.MethodPost, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}

func TestStatus_SMTPOnlyTransport(t *testing.T) {
	calls := &fakes.Calls{}
	m := &fakes.Mailer{Calls: calls}
	c := NewControllers(svc.NewServices(svc.Deps{Sender: m, From: "team@x.com"})).Emails

	rec, out := do(c.Status, http.MethodGet, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Email status requires a Resend API key", out["error"])
	assert.Equal(t, "SERVER_CONFIG", out["code"])
	assert.Empty(t, calls.All())
}

func TestMilestone_Success(t *testing.T) {
	calls := &fakes.Calls{}
	m := &fakes.Mailer{Calls: calls}
	st := fakes.NewStore(calls)

	body := `{"to":"ana@x.com","firstName":"Ana","subject":"Congrats","message":"Well done",` +
		`"pdfBase64":"` + base64.StdEncoding.EncodeToString([]byte("%PDF")) + `","userId":"u1","sentBy":"admin"}`
	rec, out := do(newController(m, st, "").Milestone, http.MethodPost, body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "email-1", out["data"].(map[string]any)["id"])
	assert.Equal(t, []string{"mail.send:Congrats", "store.history:u1"}, calls.All())

	require.Len(t, m.Sent, 1)
	require.Len(t, m.Sent[0].Attachments, 1)
	assert.Equal(t, svc.DefaultPDFFilename, m.Sent[0].Attachments[0].Filename)
}

func TestMilestone_Validation(t *testing.T) {
	cases := []struct {
		name, body, msg string
	}{
		{"missing subject", `{"to":"a@x.com","message":"hi"}`, "Missing required fields: to, subject, message"},
		{"bad attachment", `{"to":"a@x.com","subject":"s","message":"m","pdfBase64":"%%%"}`, "pdfBase64 must be valid base64"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			calls := &fakes.Calls{}
			rec, out := do(newController(&fakes.Mailer{Calls: calls}, nil, "").Milestone, http.MethodPost, tc.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.msg, out["error"])
			assert.Empty(t, calls.All())
		})
	}
}

func TestMilestone_ProviderError(t *testing.T) {
	m := &fakes.Mailer{Calls: &fakes.Calls{}, SendErr: &mail.Error{Status: 422, Message: "Invalid `to` field"}}
	rec, out := do(newController(m, nil, "").Milestone, http.MethodPost, `{"to":"a@x.com","subject":"s","message":"m"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Invalid `to` field", out["error"])
}

func TestProfileNotification(t *testing.T) {
	calls := &fakes.Calls{}
	m := &fakes.Mailer{Calls: calls}
	rec, out := do(newController(m, nil, "admin@x.com").ProfileNotification, http.MethodPost,
		`{"email":"ana@x.com","firstName":"Ana","lastName":"Lee"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "email-1", out["data"].(map[string]any)["id"])
	require.Len(t, m.Sent, 1)
	assert.Equal(t, []string{"admin@x.com"}, m.Sent[0].To)
}

func TestProfileNotification_Errors(t *testing.T) {
	m := &fakes.Mailer{Calls: &fakes.Calls{}}

	rec, out := do(newController(m, nil, "admin@x.com").ProfileNotification, http.MethodPost, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email is required", out["error"])

	rec, out = do(newController(m, nil, "").ProfileNotification, http.MethodPost, `{"email":"a@x.com"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server configuration error", out["error"])

	rec, _ = do(newController(m, nil, "admin@x.com").ProfileNotification, http.MethodPut, `{}`)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Empty(t, m.Calls.All())
}

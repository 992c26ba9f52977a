package emails

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/CardChase151/clients-sub001/internal/http/dto/emails"
	"github.com/CardChase151/clients-sub001/internal/mail"
	"github.com/CardChase151/clients-sub001/internal/testutil/fakes"
)

func TestStatusReporter(t *testing.T) {
	calls := &fakes.Calls{}
	m := &fakes.Mailer{Calls: calls, Listed: []json.RawMessage{json.RawMessage(`{"id":"e1"}`)}}

	got, err := NewStatusReporter(m, m).Recent(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, []string{"mail.list:100"}, calls.All())

	_, err = NewStatusReporter(nil, nil).Recent(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestStatusReporter_SenderWithoutSendLog(t *testing.T) {
	calls := &fakes.Calls{}
	m := &fakes.Mailer{Calls: calls}

	_, err := NewStatusReporter(nil, m).Recent(context.Background())
	assert.ErrorIs(t, err, mail.ErrListUnsupported)
	assert.Empty(t, calls.All())
}

func TestSenders_ValidationPrecedesConfiguration(t *testing.T) {
	ctx := context.Background()

	_, err := NewMilestoneSender(nil, nil, "f@x.com").Send(ctx, dto.MilestoneRequest{To: "a@x.com"})
	assert.ErrorIs(t, err, ErrMilestoneMissingFields)
	_, err = NewMilestoneSender(nil, nil, "f@x.com").Send(ctx, dto.MilestoneRequest{To: "a@x.com", Subject: "s", Message: "m", PDFBase64: "%%%"})
	assert.ErrorIs(t, err, ErrInvalidAttachment)
	_, err = NewMilestoneSender(nil, nil, "f@x.com").Send(ctx, dto.MilestoneRequest{To: "a@x.com", Subject: "s", Message: "m"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewProfileNotifier(nil, "f@x.com", "").Notify(ctx, dto.ProfileNotificationRequest{})
	assert.ErrorIs(t, err, ErrMissingEmail)
}

func TestStatusReporter_UpstreamError(t *testing.T) {
	m := &fakes.Mailer{Calls: &fakes.Calls{}, ListErr: &mail.Error{Status: 401, Message: "API key is invalid"}}
	_, err := NewStatusReporter(m, m).Recent(context.Background())
	assert.Equal(t, "API key is invalid", mail.ErrorMessage(err))
}

func TestMilestone_MissingSubjectSendsNothing(t *testing.T) {
	calls := &fakes.Calls{}
	m := &fakes.Mailer{Calls: calls}
	_, err := NewMilestoneSender(m, nil, "from@x.com").Send(context.Background(), dto.MilestoneRequest{
		To: "ana@x.com", Message: "hi",
	})
	assert.ErrorIs(t, err, ErrMilestoneMissingFields)
	assert.Empty(t, calls.All())
}

func TestMilestone_WithAttachmentAndHistory(t *testing.T) {
	calls := &fakes.Calls{}
	m := &fakes.Mailer{Calls: calls}
	st := fakes.NewStore(calls)

	pdf := []byte("%PDF-1.4 fake")
	res, err := NewMilestoneSender(m, st, "team@x.com").Send(context.Background(), dto.MilestoneRequest{
		To:        "ana@x.com",
		FirstName: "Ana",
		Subject:   "You did it",
		Message:   "Line one\nline two\n\nSecond para",
		PDFBase64: "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(pdf),
		UserID:    "u1",
		SentBy:    "admin-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "email-1", res.ID)
	assert.Equal(t, []string{"mail.send:You did it", "store.history:u1"}, calls.All())

	sent := m.Sent[0]
	assert.Equal(t, "team@x.com", sent.From)
	assert.Equal(t, []string{"ana@x.com"}, sent.To)
	assert.Contains(t, sent.HTML, "Hi Ana,")
	assert.Contains(t, sent.HTML, "Line one<br>line two")
	require.Len(t, sent.Attachments, 1)
	assert.Equal(t, DefaultPDFFilename, sent.Attachments[0].Filename)
	assert.Equal(t, pdf, sent.Attachments[0].Content)

	require.Len(t, st.History, 1)
	h := st.History[0]
	assert.Equal(t, "u1", h.UserID)
	require.NotNil(t, h.SentBy)
	assert.Equal(t, "admin-1", *h.SentBy)
	assert.Equal(t, map[string]any{}, h.ChangesSnapshot)
	assert.True(t, h.Success)
}

func TestMilestone_UserIDWithoutStoreSkipsHistory(t *testing.T) {
	calls := &fakes.Calls{}
	m := &fakes.Mailer{Calls: calls}
	_, err := NewMilestoneSender(m, nil, "f@x.com").Send(context.Background(), dto.MilestoneRequest{
		To: "a@x.com", Subject: "s", Message: "m", UserID: "u1",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"mail.send:s"}, calls.All())
}

func TestMilestone_HistoryFailureDoesNotFail(t *testing.T) {
	calls := &fakes.Calls{}
	st := fakes.NewStore(calls)
	st.HistoryErr = errors.New("insert failed")

	_, err := NewMilestoneSender(&fakes.Mailer{Calls: calls}, st, "f@x.com").Send(context.Background(), dto.MilestoneRequest{
		To: "a@x.com", Subject: "s", Message: "m", UserID: "u1",
	})
	assert.NoError(t, err)
}

func TestMilestone_SendFailureSkipsHistory(t *testing.T) {
	calls := &fakes.Calls{}
	st := fakes.NewStore(calls)
	m := &fakes.Mailer{Calls: calls, SendErr: &mail.Error{Status: 403, Message: "domain not verified"}}

	_, err := NewMilestoneSender(m, st, "f@x.com").Send(context.Background(), dto.MilestoneRequest{
		To: "a@x.com", Subject: "s", Message: "m", UserID: "u1",
	})
	assert.Equal(t, "domain not verified", mail.ErrorMessage(err))
	assert.Empty(t, st.History)
}

func TestMilestone_InvalidAttachment(t *testing.T) {
	calls := &fakes.Calls{}
	_, err := NewMilestoneSender(&fakes.Mailer{Calls: calls}, nil, "f@x.com").Send(context.Background(), dto.MilestoneRequest{
		To: "a@x.com", Subject: "s", Message: "m", PDFBase64: "***not base64***",
	})
	assert.ErrorIs(t, err, ErrInvalidAttachment)
	assert.Empty(t, calls.All())
}

func TestDecodeAttachment(t *testing.T) {
	want := []byte("hello pdf")
	std := base64.StdEncoding.EncodeToString(want)

	for _, in := range []string{
		std,
		"data:application/pdf;base64," + std,
		std[:4] + "\n" + std[4:],
		base64.RawStdEncoding.EncodeToString(want),
	} {
		got, err := DecodeAttachment(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := DecodeAttachment("data:application/pdf;base64,")
	assert.Error(t, err)
}

func TestProfileNotifier(t *testing.T) {
	calls := &fakes.Calls{}
	m := &fakes.Mailer{Calls: calls}

	_, err := NewProfileNotifier(m, "f@x.com", "admin@x.com").Notify(context.Background(), dto.ProfileNotificationRequest{
		Email: "ana@x.com", FirstName: "Ana", LastName: "Diaz",
	})
	require.NoError(t, err)

	sent := m.Sent[0]
	assert.Equal(t, []string{"admin@x.com"}, sent.To)
	assert.Equal(t, "Profile completed: Ana Diaz", sent.Subject)
	assert.Contains(t, sent.HTML, "ana@x.com")
	assert.NotContains(t, sent.HTML, ">Company<")
}

func TestProfileNotifier_Errors(t *testing.T) {
	calls := &fakes.Calls{}
	m := &fakes.Mailer{Calls: calls}

	_, err := NewProfileNotifier(m, "f@x.com", "admin@x.com").Notify(context.Background(), dto.ProfileNotificationRequest{})
	assert.ErrorIs(t, err, ErrMissingEmail)

	_, err = NewProfileNotifier(m, "f@x.com", "").Notify(context.Background(), dto.ProfileNotificationRequest{Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	assert.Empty(t, calls.All())
}

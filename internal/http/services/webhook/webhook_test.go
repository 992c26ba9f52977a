package webhook

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CardChase151/clients-sub001/internal/cache"
	"github.com/CardChase151/clients-sub001/internal/store"
	"github.com/CardChase151/clients-sub001/internal/testutil/fakes"
)

var fixedNow = time.Date(2026, 5, 4, 12, 30, 0, 0, time.FixedZone("X", 3600))

func newSvc(t *testing.T, dedupe cache.Client) (*fakes.Calls, *fakes.Store, Service) {
	t.Helper()
	calls := &fakes.Calls{}
	st := fakes.NewStore(calls)
	st.Profiles["ana@x.com"] = &store.Profile{ID: "u1", Email: "ana@x.com"}
	svc := NewService(st, Options{Dedupe: dedupe, Now: func() time.Time { return fixedNow }})
	return calls, st, svc
}

func TestProject(t *testing.T) {
	u, ok := Project(EventSent, fixedNow)
	require.True(t, ok)
	assert.Equal(t, store.EmailSent, u.Status)
	assert.Nil(t, u.OpenedAt)

	u, ok = Project(EventDelivered, fixedNow)
	require.True(t, ok)
	assert.Equal(t, store.EmailDelivered, u.Status)
	assert.Nil(t, u.OpenedAt)

	u, ok = Project(EventOpened, fixedNow)
	require.True(t, ok)
	assert.Equal(t, store.EmailOpened, u.Status)
	require.NotNil(t, u.OpenedAt)
	assert.Equal(t, time.UTC, u.OpenedAt.Location())
	assert.True(t, fixedNow.Equal(*u.OpenedAt))

	u, ok = Project(EventClicked, fixedNow)
	require.True(t, ok)
	assert.Equal(t, store.EmailClicked, u.Status)
	assert.NotNil(t, u.OpenedAt)

	for _, typ := range []string{"email.bounced", "email.complained", "email.delivery_delayed", ""} {
		_, ok := Project(typ, fixedNow)
		assert.False(t, ok, typ)
	}
}

func TestHandle_Opened(t *testing.T) {
	_, st, svc := newSvc(t, nil)
	res := svc.Handle(context.Background(), "", []byte(`{"type":"email.opened","created_at":"2026-05-04T11:30:00Z","data":{"email_id":"e1","to":["ana@x.com"]}}`))

	assert.Equal(t, ResultUpdated, res.Outcome)
	assert.Equal(t, "u1", res.UserID)
	require.Len(t, st.Updates, 1)
	assert.Equal(t, store.EmailOpened, st.Updates[0].Update.Status)
	require.NotNil(t, st.Updates[0].Update.OpenedAt)
	assert.False(t, st.Updates[0].Update.OpenedAt.IsZero())
}

func TestHandle_UnknownTypeNoUpdate(t *testing.T) {
	calls, st, svc := newSvc(t, nil)
	res := svc.Handle(context.Background(), "", []byte(`{"type":"email.bounced","data":{"to":["ana@x.com"]}}`))

	assert.Equal(t, ResultIgnored, res.Outcome)
	assert.Empty(t, st.Updates)
	assert.Empty(t, calls.All())
}

func TestHandle_NoRecipientNoLookup(t *testing.T) {
	for _, body := range []string{
		`{"type":"email.delivered","data":{"to":[]}}`,
		`{"type":"email.delivered","data":{}}`,
		`{"type":"email.delivered"}`,
	} {
		calls, _, svc := newSvc(t, nil)
		res := svc.Handle(context.Background(), "", []byte(body))
		assert.Equal(t, ResultNoRecipient, res.Outcome, body)
		assert.Empty(t, calls.All(), body)
	}
}

func TestHandle_InvalidPayload(t *testing.T) {
	calls, _, svc := newSvc(t, nil)
	res := svc.Handle(context.Background(), "", []byte(`not json`))
	assert.Equal(t, ResultInvalidPayload, res.Outcome)
	assert.Empty(t, calls.All())
}

func TestHandle_UserNotFound(t *testing.T) {
	_, st, svc := newSvc(t, nil)
	res := svc.Handle(context.Background(), "", []byte(`{"type":"email.sent","data":{"to":["nobody@x.com"]}}`))
	assert.Equal(t, ResultUserNotFound, res.Outcome)
	assert.Empty(t, st.Updates)
}

func TestHandle_UpdateFailure(t *testing.T) {
	_, st, svc := newSvc(t, nil)
	st.UpdateErr = errors.New("permission denied")

	res := svc.Handle(context.Background(), "", []byte(`{"type":"email.sent","data":{"to":["ana@x.com"]}}`))
	assert.Equal(t, ResultUpdateFailed, res.Outcome)
}

func TestHandle_DuplicateDelivery(t *testing.T) {
	calls, st, svc := newSvc(t, cache.NewMemory(""))
	body := []byte(`{"type":"email.delivered","data":{"to":["ana@x.com"]}}`)

	first := svc.Handle(context.Background(), "msg_2abc", body)
	second := svc.Handle(context.Background(), "msg_2abc", body)

	assert.Equal(t, ResultUpdated, first.Outcome)
	assert.Equal(t, ResultDuplicate, second.Outcome)
	assert.Len(t, st.Updates, 1)
	assert.Equal(t, 1, calls.Count("store.update:u1"))

	third := svc.Handle(context.Background(), "msg_other", body)
	assert.Equal(t, ResultUpdated, third.Outcome)
}

func TestHandle_FailedUpdateReleasesDelivery(t *testing.T) {
	_, st, svc := newSvc(t, cache.NewMemory(""))
	body := []byte(`{"type":"email.delivered","data":{"to":["ana@x.com"]}}`)

	st.UpdateErr = errors.New("timeout")
	assert.Equal(t, ResultUpdateFailed, svc.Handle(context.Background(), "msg_1", body).Outcome)

	st.UpdateErr = nil
	assert.Equal(t, ResultUpdated, svc.Handle(context.Background(), "msg_1", body).Outcome)
}

type brokenCache struct{ cache.Client }

func (brokenCache) SetIfAbsent(context.Context, string, string, time.Duration) (bool, error) {
	return false, errors.New("redis down")
}

func TestHandle_CacheErrorStillProcesses(t *testing.T) {
	_, st, svc := newSvc(t, brokenCache{})
	res := svc.Handle(context.Background(), "msg_1", []byte(`{"type":"email.sent","data":{"to":["ana@x.com"]}}`))
	assert.Equal(t, ResultUpdated, res.Outcome)
	assert.Len(t, st.Updates, 1)
}

func TestHandle_NotConfigured(t *testing.T) {
	svc := NewService(nil, Options{})
	assert.False(t, svc.Configured())
	assert.Equal(t, ResultNotConfigured, svc.Handle(context.Background(), "", []byte(`{}`)).Outcome)
}

func TestMetricType(t *testing.T) {
	assert.Equal(t, EventOpened, metricType(EventOpened))
	assert.Equal(t, "other", metricType("email.bounced"))
	assert.Equal(t, "unknown", metricType(""))
}

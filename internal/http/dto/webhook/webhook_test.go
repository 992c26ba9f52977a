package webhook

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_Recipients(t *testing.T) {
	cases := map[string]string{
		`{"data":{"to":["a@x.com","b@x.com"]}}`: "a@x.com",
		`{"data":{"to":"a@x.com"}}`:             "a@x.com",
		`{"data":{"to":[]}}`:                    "",
		`{"data":{"to":null}}`:                  "",
		`{"data":{}}`:                           "",
		`{}`:                                    "",
	}
	for body, want := range cases {
		var e Event
		require.NoError(t, json.Unmarshal([]byte(body), &e), body)
		assert.Equal(t, want, e.Data.To.First(), body)
	}
}

func TestEvent_RecipientsWrongType(t *testing.T) {
	var e Event
	assert.Error(t, json.Unmarshal([]byte(`{"data":{"to":42}}`), &e))
}

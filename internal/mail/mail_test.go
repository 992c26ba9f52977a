package mail

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	rejected := &Error{Status: 422, Name: "validation_error", Message: "Invalid `to` field."}

	assert.Equal(t, "", ErrorMessage(nil))
	assert.Equal(t, "Invalid `to` field.", ErrorMessage(rejected))
	assert.Equal(t, "Invalid `to` field.", ErrorMessage(fmt.Errorf("send: %w", rejected)))
	assert.Equal(t, "dial tcp: refused", ErrorMessage(errors.New("dial tcp: refused")))
}

func TestError_String(t *testing.T) {
	m := Message{From: "team@x.com", To: []string{"ana@x.com"}, Subject: "hi"}
	assert.Equal(t, "hi", m.Subject)

	assert.Equal(t, "mail: bad key (auth, status 401)", (&Error{Status: 401, Name: "auth", Message: "bad key"}).Error())
	assert.Equal(t, "mail: bad key (status 401)", (&Error{Status: 401, Message: "bad key"}).Error())
}

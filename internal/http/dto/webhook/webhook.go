// Package webhook holds the email provider event payload.
package webhook

import "encoding/json"

// Event is a delivery-lifecycle event. Only the fields used for the status
// projection are typed; the rest of data is ignored.
type Event struct {
	Type      string    `json:"type"`
	CreatedAt string    `json:"created_at"`
	Data      EventData `json:"data"`
}

type EventData struct {
	EmailID string `json:"email_id"`
	// To is usually an array but some senders post a bare string.
	To Recipients `json:"to"`
}

// Recipients accepts either ["a@x.com", ...] or "a@x.com".
type Recipients []string

func (r *Recipients) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*r = list
		return nil
	}
	var one string
	if err := json.Unmarshal(b, &one); err != nil {
		return err
	}
	if one == "" {
		*r = nil
	} else {
		*r = Recipients{one}
	}
	return nil
}

// First returns the first recipient or "".
func (r Recipients) First() string {
	if len(r) == 0 {
		return ""
	}
	return r[0]
}

type Ack struct {
	Received bool `json:"received"`
}

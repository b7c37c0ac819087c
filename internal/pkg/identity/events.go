package identity

import (
	"encoding/json"
	"errors"
	"strings"
)

const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// WebhookEvent is the identity provider's lifecycle notification envelope.
type WebhookEvent struct {
	Type string   `json:"type"`
	Data UserData `json:"data"`
}

// UserData carries the provider-side account fields we mirror locally.
type UserData struct {
	ID             string         `json:"id"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	ImageURL       string         `json:"image_url"`
	EmailAddresses []EmailAddress `json:"email_addresses"`
}

type EmailAddress struct {
	EmailAddress string `json:"email_address"`
}

// PrimaryEmail returns the first listed address, the provider's convention
// for the primary one.
func (d UserData) PrimaryEmail() string {
	if len(d.EmailAddresses) == 0 {
		return ""
	}
	return strings.TrimSpace(d.EmailAddresses[0].EmailAddress)
}

// ParseEvent decodes a verified webhook payload.
func ParseEvent(payload []byte) (*WebhookEvent, error) {
	var ev WebhookEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, err
	}
	if strings.TrimSpace(ev.Type) == "" {
		return nil, errors.New("identity event has no type")
	}
	if strings.TrimSpace(ev.Data.ID) == "" {
		return nil, errors.New("identity event has no user id")
	}
	return &ev, nil
}

// IsUserEvent reports whether the event type is one of the lifecycle kinds
// this service processes.
func IsUserEvent(eventType string) bool {
	switch strings.TrimSpace(eventType) {
	case EventUserCreated, EventUserUpdated, EventUserDeleted:
		return true
	default:
		return false
	}
}

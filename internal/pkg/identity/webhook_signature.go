package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"
)

// Webhook deliveries are signed with HMAC-SHA256 over "id.timestamp.payload"
// using the base64 portion of the shared secret ("whsec_..."). The signature
// header may carry several space-separated "v1,<base64>" entries during
// secret rotation; any match verifies.

const webhookSecretPrefix = "whsec_"

// Deliveries older or newer than this are rejected to limit replay.
const webhookTimestampTolerance = 5 * time.Minute

var (
	ErrMissingSignatureHeaders = errors.New("missing webhook signature headers")
	ErrStaleWebhookTimestamp   = errors.New("webhook timestamp outside tolerance")
	ErrSignatureMismatch       = errors.New("webhook signature mismatch")
)

// VerifyWebhookSignature checks an identity-provider delivery before any of
// its payload is trusted.
func VerifyWebhookSignature(payload []byte, msgID, timestamp, signatureHeader, secret string, now time.Time) error {
	msgID = strings.TrimSpace(msgID)
	timestamp = strings.TrimSpace(timestamp)
	signatureHeader = strings.TrimSpace(signatureHeader)
	if msgID == "" || timestamp == "" || signatureHeader == "" {
		return ErrMissingSignatureHeaders
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrMissingSignatureHeaders
	}
	sent := time.Unix(ts, 0)
	if sent.Before(now.Add(-webhookTimestampTolerance)) || sent.After(now.Add(webhookTimestampTolerance)) {
		return ErrStaleWebhookTimestamp
	}

	key, err := decodeWebhookSecret(secret)
	if err != nil {
		return err
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(msgID))
	mac.Write([]byte("."))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, entry := range strings.Fields(signatureHeader) {
		parts := strings.SplitN(entry, ",", 2)
		if len(parts) != 2 || parts[0] != "v1" {
			continue
		}
		got, err := base64.StdEncoding.DecodeString(parts[1])
		if err != nil {
			continue
		}
		if hmac.Equal(expected, got) {
			return nil
		}
	}
	return ErrSignatureMismatch
}

func decodeWebhookSecret(secret string) ([]byte, error) {
	s := strings.TrimSpace(secret)
	if s == "" {
		return nil, errors.New("identity webhook secret is not configured")
	}
	s = strings.TrimPrefix(s, webhookSecretPrefix)
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.New("identity webhook secret is not valid base64")
	}
	return key, nil
}

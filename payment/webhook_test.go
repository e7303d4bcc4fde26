package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test"

var testPayload = []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"sess_1","payment_status":"paid","metadata":{"orderId":"42"}}}}`)

func TestConstructEventValidSignature(t *testing.T) {
	now := time.Now()
	header := SignPayload(testPayload, testSecret, now)

	event, err := constructEventAt(testPayload, header, testSecret, now, DefaultTolerance)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, EventSessionCompleted, event.Type)
	assert.Equal(t, "sess_1", event.Data.Object.ID)
	assert.True(t, event.Data.Object.Paid())
	assert.Equal(t, "42", event.Data.Object.Metadata["orderId"])
}

func TestConstructEventMissingHeader(t *testing.T) {
	_, err := ConstructEvent(testPayload, "", testSecret)
	assert.ErrorIs(t, err, ErrMissingSignature)
}

func TestConstructEventWrongSecret(t *testing.T) {
	now := time.Now()
	header := SignPayload(testPayload, "whsec_other", now)

	_, err := constructEventAt(testPayload, header, testSecret, now, DefaultTolerance)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestConstructEventTamperedPayload(t *testing.T) {
	now := time.Now()
	header := SignPayload(testPayload, testSecret, now)
	tampered := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"sess_1","metadata":{"orderId":"43"}}}}`)

	_, err := constructEventAt(tampered, header, testSecret, now, DefaultTolerance)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestConstructEventStaleTimestamp(t *testing.T) {
	signedAt := time.Now().Add(-10 * time.Minute)
	header := SignPayload(testPayload, testSecret, signedAt)

	_, err := constructEventAt(testPayload, header, testSecret, time.Now(), DefaultTolerance)
	assert.ErrorIs(t, err, ErrStaleTimestamp)
}

func TestConstructEventGarbageHeader(t *testing.T) {
	_, err := ConstructEvent(testPayload, "not-a-signature", testSecret)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

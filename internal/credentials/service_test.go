package credentials

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyQRCarriesCodeDirectly(t *testing.T) {
	v := NewVerifier()

	result, err := v.Verify(context.Background(), "  CODE-001  ", "QR")
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, "CODE-001", result.TicketCode)
	assert.Nil(t, result.Band)
}

func TestVerifyManualEntry(t *testing.T) {
	v := NewVerifier()

	result, err := v.Verify(context.Background(), "CODE-001", "MANUAL")
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, "CODE-001", result.TicketCode)
}

func TestVerifyEmptyPayload(t *testing.T) {
	v := NewVerifier()

	result, err := v.Verify(context.Background(), "   ", "QR")
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "empty credential payload", result.Reason)
}

func TestVerifyBandPayload(t *testing.T) {
	v := NewVerifier()

	result, err := v.Verify(context.Background(), "band:band-42:user-7:CODE-001", "NFC")
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, "CODE-001", result.TicketCode)
	require.NotNil(t, result.Band)
	assert.Equal(t, "band-42", result.Band.BandID)
	assert.Equal(t, "user-7", result.Band.UserID)
	assert.Empty(t, result.Band.Alerts)
}

func TestVerifyBandPayloadWithAlerts(t *testing.T) {
	v := NewVerifier()

	result, err := v.Verify(context.Background(), "band:band-42:user-7:CODE-001:nut-allergy,vip", "nfc")
	require.NoError(t, err)
	assert.True(t, result.Valid)
	require.NotNil(t, result.Band)
	assert.Equal(t, []string{"nut-allergy", "vip"}, result.Band.Alerts)
}

func TestVerifyMalformedBandPayload(t *testing.T) {
	v := NewVerifier()

	tests := []struct {
		name    string
		payload string
		reason  string
	}{
		{"wrong prefix", "ticket:band-42:user-7:CODE-001", "malformed band payload"},
		{"too few parts", "band:band-42:user-7", "malformed band payload"},
		{"missing band id", "band::user-7:CODE-001", "band payload missing identifiers"},
		{"missing ticket code", "band:band-42:user-7:", "band payload missing identifiers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := v.Verify(context.Background(), tt.payload, "NFC")
			require.NoError(t, err)
			assert.False(t, result.Valid)
			assert.Equal(t, tt.reason, result.Reason)
		})
	}
}

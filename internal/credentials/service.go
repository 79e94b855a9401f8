package credentials

import (
	"context"
	"strings"
)

// Verifier resolves an inbound scan payload to a ticket credential before
// the admission core runs. Cryptographic authentication of the payload
// (QR signatures, NFC token signing) happens upstream of this service; what
// arrives here is the already-authenticated envelope.
type Verifier interface {
	Verify(ctx context.Context, payload, method string) (*Result, error)
}

type verifier struct{}

// NewVerifier creates a new credential verifier instance
func NewVerifier() Verifier {
	return &verifier{}
}

func (v *verifier) Verify(ctx context.Context, payload, method string) (*Result, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return &Result{Valid: false, Reason: "empty credential payload"}, nil
	}

	if strings.EqualFold(method, "NFC") {
		return v.verifyBand(payload)
	}

	// QR and manual entry carry the ticket code directly.
	return &Result{Valid: true, TicketCode: payload}, nil
}

// verifyBand unpacks an NFC band envelope of the form
// band:<bandId>:<userId>:<ticketCode>[:alert1,alert2].
func (v *verifier) verifyBand(payload string) (*Result, error) {
	parts := strings.Split(payload, ":")
	if len(parts) < 4 || parts[0] != "band" {
		return &Result{Valid: false, Reason: "malformed band payload"}, nil
	}
	if parts[1] == "" || parts[3] == "" {
		return &Result{Valid: false, Reason: "band payload missing identifiers"}, nil
	}

	band := &BandInfo{
		BandID: parts[1],
		UserID: parts[2],
	}
	if len(parts) > 4 && parts[4] != "" {
		band.Alerts = strings.Split(parts[4], ",")
	}

	return &Result{
		Valid:      true,
		TicketCode: parts[3],
		Band:       band,
	}, nil
}

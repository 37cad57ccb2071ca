package paymentgateway_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/integrations/paymentgateway"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestSignatureVerifier_Verify(t *testing.T) {
	const secret = "test-webhook-secret"
	body := []byte(`{"intent_id":"pi_123","event":"payment.succeeded"}`)

	v := paymentgateway.NewSignatureVerifier(secret)

	require.NoError(t, v.Verify(body, sign(secret, body)))
}

func TestSignatureVerifier_RejectsWrongSecret(t *testing.T) {
	body := []byte(`{"intent_id":"pi_123","event":"payment.succeeded"}`)

	v := paymentgateway.NewSignatureVerifier("real-secret")

	err := v.Verify(body, sign("other-secret", body))
	require.ErrorIs(t, err, paymentgateway.ErrInvalidSignature)
}

func TestSignatureVerifier_RejectsTamperedBody(t *testing.T) {
	const secret = "test-webhook-secret"
	body := []byte(`{"intent_id":"pi_123","event":"payment.succeeded"}`)
	tampered := []byte(`{"intent_id":"pi_123","event":"payment.failed"}`)

	v := paymentgateway.NewSignatureVerifier(secret)

	err := v.Verify(tampered, sign(secret, body))
	require.ErrorIs(t, err, paymentgateway.ErrInvalidSignature)
}

func TestSignatureVerifier_RejectsEmptySignature(t *testing.T) {
	v := paymentgateway.NewSignatureVerifier("secret")

	err := v.Verify([]byte("{}"), "")
	require.ErrorIs(t, err, paymentgateway.ErrInvalidSignature)
}

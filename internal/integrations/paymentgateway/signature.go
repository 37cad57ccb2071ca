package paymentgateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignatureHeader HTTP-заголовок с подписью webhook
const SignatureHeader = "X-Gateway-Signature"

// SignatureVerifier проверяет HMAC-SHA256 подпись тела webhook
type SignatureVerifier struct {
	secret []byte
}

// NewSignatureVerifier создает верификатор с общим секретом процессора
func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{secret: []byte(secret)}
}

// Verify сверяет hex-подпись с HMAC-SHA256 от тела запроса.
// Сравнение константное по времени.
func (v *SignatureVerifier) Verify(body []byte, signature string) error {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}

	return nil
}

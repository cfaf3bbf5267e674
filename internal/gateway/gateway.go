package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Client реализует платёжную способность через общий секрет: ссылка на
// платёж создаётся локально, подпись шлюза проверяется HMAC-SHA256 по
// строке "<orderRef>|<paymentRef>".
type Client struct {
	keyID  string
	secret []byte
}

func New(keyID, secret string) *Client {
	return &Client{keyID: keyID, secret: []byte(secret)}
}

func (c *Client) CreateGatewayOrder(ctx context.Context, amountCents int64, currency string) (string, error) {
	if amountCents <= 0 {
		return "", fmt.Errorf("gateway order amount must be positive, got %d", amountCents)
	}
	var buf [12]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("failed to generate gateway order ref: %w", err)
	}
	return "order_" + c.keyID + "_" + hex.EncodeToString(buf[:]), nil
}

func (c *Client) VerifySignature(orderRef, paymentRef, signature string) bool {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(orderRef + "|" + paymentRef))
	expected := hex.EncodeToString(mac.Sum(nil))
	// сравнение за постоянное время
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign — вспомогательный метод для тестов и локального стенда.
func (c *Client) Sign(orderRef, paymentRef string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(orderRef + "|" + paymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}

package captcha

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Codec подписывает и проверяет stateless-токены капчи.
// Формат: base64("payload:expiresAtMillis:hexHMAC"), HMAC-SHA256 по "payload:expiresAtMillis".
// Никакого серверного хранилища — целостность и свежесть гарантирует только подпись.
type Codec struct {
	secret []byte
	now    func() time.Time
}

func NewCodec(secret []byte, now func() time.Time) *Codec {
	if now == nil {
		now = time.Now
	}
	return &Codec{secret: secret, now: now}
}

func (c *Codec) Issue(payload string, ttl time.Duration) string {
	expiresAt := c.now().Add(ttl).UnixMilli()
	data := fmt.Sprintf("%s:%d", payload, expiresAt)
	return base64.StdEncoding.EncodeToString([]byte(data + ":" + c.sign(data)))
}

// Payload возвращает вложенный payload после проверки срока и подписи.
// Любая ошибка разбора — просто false, наружу ничего не бросаем.
func (c *Codec) Payload(token string) (string, bool) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", false
	}
	parts := strings.Split(string(raw), ":")
	if len(parts) != 3 {
		return "", false
	}
	payload, expStr, sig := parts[0], parts[1], parts[2]

	expiresAt, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil {
		return "", false
	}
	if c.now().UnixMilli() > expiresAt {
		return "", false
	}
	expected := c.sign(payload + ":" + expStr)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", false
	}
	return payload, true
}

func (c *Codec) Verify(candidate, token string) bool {
	payload, ok := c.Payload(token)
	return ok && candidate == payload
}

func (c *Codec) sign(data string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

package captcha

import (
	"strings"
	"testing"
	"time"
)

func TestTextIssuerCaseInsensitive(t *testing.T) {
	clock := newTestClock()
	codec := NewCodec(testSecret, clock.Now)
	issuer := NewTextIssuer(codec, 5*time.Minute)

	// токен всегда несёт ответ в нижнем регистре
	token := codec.Issue("ab3d", 5*time.Minute)

	for _, answer := range []string{"ab3d", "AB3D", "Ab3D", "  ab3d "} {
		if !issuer.Verify(answer, token) {
			t.Fatalf("answer %q should verify case-insensitively", answer)
		}
	}
	if issuer.Verify("ab3e", token) {
		t.Fatal("wrong answer must not verify")
	}
}

func TestTextIssuerGenerate(t *testing.T) {
	clock := newTestClock()
	codec := NewCodec(testSecret, clock.Now)
	issuer := NewTextIssuer(codec, 5*time.Minute)

	ch, err := issuer.Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(ch.ImageB64, "data:image/png;base64,") {
		t.Fatalf("unexpected image encoding: %.40q", ch.ImageB64)
	}

	answer, ok := codec.Payload(ch.Token)
	if !ok {
		t.Fatal("issued token must carry a valid payload")
	}
	if answer != strings.ToLower(answer) {
		t.Fatalf("embedded answer %q must be lowercase", answer)
	}
	if len(answer) != 4 {
		t.Fatalf("expected 4-char challenge, got %q", answer)
	}
	if !issuer.Verify(strings.ToUpper(answer), ch.Token) {
		t.Fatal("uppercased answer should verify against issued token")
	}
}

func TestTextIssuerExpiredToken(t *testing.T) {
	clock := newTestClock()
	codec := NewCodec(testSecret, clock.Now)
	issuer := NewTextIssuer(codec, 5*time.Minute)

	token := codec.Issue("ab3d", 5*time.Minute)
	clock.Advance(5*time.Minute + time.Second)
	if issuer.Verify("ab3d", token) {
		t.Fatal("expired challenge must not verify")
	}
}

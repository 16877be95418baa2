package utils

import (
	"regexp"
	"testing"
)

var sixDigits = regexp.MustCompile(`^\d{6}$`)

func TestGenerateOTPFormat(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		code, err := GenerateOTP()
		if err != nil {
			t.Fatalf("generate otp: %v", err)
		}
		if !sixDigits.MatchString(code) {
			t.Fatalf("code %q is not a zero-padded 6-digit string", code)
		}
		seen[code] = true
	}
	// 200 кодов из миллиона — все одинаковые быть не могут
	if len(seen) < 2 {
		t.Fatal("generator produced a single repeated code")
	}
}

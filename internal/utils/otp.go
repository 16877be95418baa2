package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var otpMax = big.NewInt(1000000)

// GenerateOTP возвращает равномерно случайный 6-значный код с ведущими нулями.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpMax)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

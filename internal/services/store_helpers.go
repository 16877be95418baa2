package services

import (
	"database/sql"
	"errors"
	"strconv"
)

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func intID(id int) string {
	return strconv.Itoa(id)
}

// mustInt — id приходит только из userCredentialStore, там он всегда десятичный
func mustInt(id string) int {
	n, _ := strconv.Atoi(id)
	return n
}

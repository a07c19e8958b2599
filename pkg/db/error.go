package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Unique-violation messages for the three supported dialects. Drivers that
// predate gorm's TranslateError surface these as plain strings.
var duplicateKeyMessages = []string{
	"duplicate key value violates unique constraint", // postgres 23505
	"Error 1062",                                     // mysql ER_DUP_ENTRY
	"UNIQUE constraint failed",                       // sqlite 2067
}

func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	for _, m := range duplicateKeyMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

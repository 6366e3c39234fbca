package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrWatchKeyMismatch = errors.New("watch key does not match")

// HashWatchKey hashes the passphrase spectators must present. The result is
// what goes into WATCH_KEY_HASH.
func HashWatchKey(key string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckWatchKey compares key against hash. An empty hash means the
// spectator server is open to anyone.
func CheckWatchKey(key, hash string) error {
	if hash == "" {
		return nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)); err != nil {
		return ErrWatchKeyMismatch
	}
	return nil
}

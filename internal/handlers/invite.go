package handlers

import (
	"crypto/rand"
	"math/big"
)

const (
	base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	loginIDPrefix  = "pfr_"
)

func randomBase36(n int) (string, error) {
	base := big.NewInt(int64(len(base36Alphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, base)
		if err != nil {
			return "", err
		}
		buf[i] = base36Alphabet[idx.Int64()]
	}
	return string(buf), nil
}

// inviteCredentials generates a login id and a one-time password for an invited account.
func inviteCredentials() (loginID, password string, err error) {
	suffix, err := randomBase36(8)
	if err != nil {
		return "", "", err
	}
	secret, err := randomBase36(10)
	if err != nil {
		return "", "", err
	}
	return loginIDPrefix + suffix, secret + "!", nil
}

package service

import "golang.org/x/crypto/bcrypt"

// hashPassword returns the bcrypt hash stored at rest. Called on create and
// whenever the plaintext changes, never otherwise.
func hashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// passwordMatches reports whether plain matches the stored bcrypt hash.
func passwordMatches(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

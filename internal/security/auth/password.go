package auth

import "golang.org/x/crypto/bcrypt"

// hashCost mirrors the standard bcrypt cost factor of 10, balancing hashing
// latency against brute-force resistance.
const hashCost = 10

// HashPassword produces a salted one-way hash of the plaintext. The salt is
// generated per call, so hashing the same input twice yields different output.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plaintext matches the stored hash.
// bcrypt performs the comparison in constant time.
func VerifyPassword(plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}

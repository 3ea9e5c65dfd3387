package auth

import "golang.org/x/crypto/bcrypt"

const bcryptCost = 12

// HashPassword хэширует пароль для хранения
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(b), err
}

// CheckPassword сверяет пароль с хэшем
func CheckPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

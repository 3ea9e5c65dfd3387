package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hr-compliance-api/internal/domain"
)

// Claims содержит полезную нагрузку сессионного токена
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// SignToken выпускает HS256 токен для пользователя
func SignToken(secret string, userID int64, role domain.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: strconv.FormatInt(userID, 10),
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}).SignedString([]byte(secret))
}

// ParseToken проверяет подпись токена и возвращает вызывающего
func ParseToken(secret, token string) (domain.Caller, error) {
	t, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return domain.Caller{}, err
	}

	claims, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return domain.Caller{}, jwt.ErrTokenInvalidClaims
	}

	uid, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return domain.Caller{}, jwt.ErrTokenInvalidClaims
	}

	return domain.Caller{UserID: uid, Role: domain.Role(claims.Role)}, nil
}

package gateway

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/motahq/mota-sync/internal/models"
)

// TokenSigner выпускает короткоживущие service-to-service токены,
// которые downstream сервисы принимают в заголовке Authorization.
type TokenSigner struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenSigner создает signer для межсервисных токенов.
// secret должен быть криптографически стойкой случайной строкой.
func NewTokenSigner(secret, issuer string, ttl time.Duration) *TokenSigner {
	return &TokenSigner{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// Sign выпускает HS256 токен с контекстом пользователя в claims
func (s *TokenSigner) Sign(uc models.UserContext) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": uc.UserID,
		"tid": uc.TenantID,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign service token: %w", err)
	}

	return signed, nil
}

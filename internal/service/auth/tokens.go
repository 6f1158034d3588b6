package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL время жизни токена по умолчанию
const DefaultTokenTTL = 24 * time.Hour

// ErrInvalidToken возвращается для просроченных, поддельных или отозванных токенов
var ErrInvalidToken = errors.New("invalid token")

// Claims данные, извлеченные из проверенного токена
type Claims struct {
	OwnerID   string
	Email     string
	Name      string
	TokenID   string
	ExpiresAt time.Time
}

// TokenManager выпускает и проверяет HS256 JWT токены сессий
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time // jti -> момент, после которого запись можно забыть
}

// NewTokenManager создает менеджер токенов с указанным секретом
func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret cannot be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{
		secret:  []byte(secret),
		ttl:     ttl,
		now:     time.Now,
		revoked: make(map[string]time.Time),
	}, nil
}

// Issue выпускает токен для пользователя
func (m *TokenManager) Issue(ownerID, email, name string) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := jwt.MapClaims{
		"sub":   ownerID,
		"email": email,
		"name":  name,
		"jti":   uuid.New().String(),
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, time.Unix(expiresAt.Unix(), 0), nil
}

// Verify проверяет подпись, срок действия и отзыв токена
func (m *TokenManager) Verify(tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	claims := Claims{
		OwnerID: stringClaim(mapClaims, "sub"),
		Email:   stringClaim(mapClaims, "email"),
		Name:    stringClaim(mapClaims, "name"),
		TokenID: stringClaim(mapClaims, "jti"),
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	if claims.OwnerID == "" || claims.TokenID == "" {
		return Claims{}, ErrInvalidToken
	}
	if m.isRevoked(claims.TokenID) {
		return Claims{}, fmt.Errorf("%w: token revoked", ErrInvalidToken)
	}

	return claims, nil
}

// Revoke помечает токен отозванным до истечения его срока
func (m *TokenManager) Revoke(claims Claims) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	// Заодно вычищаем записи, срок которых уже прошел
	for id, until := range m.revoked {
		if now.After(until) {
			delete(m.revoked, id)
		}
	}
	m.revoked[claims.TokenID] = claims.ExpiresAt
}

func (m *TokenManager) isRevoked(tokenID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[tokenID]
	return ok
}

func stringClaim(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}

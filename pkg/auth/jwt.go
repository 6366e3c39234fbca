package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SpectatorClaims are carried by the token a viewer presents to open the
// event stream of one game.
type SpectatorClaims struct {
	GameID      string `json:"game_id"`
	SpectatorID string `json:"spectator_id"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and checks spectator tokens with a shared HMAC secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (ti *TokenIssuer) TTL() time.Duration {
	return ti.ttl
}

// GenerateSpectatorToken creates a short-lived token for gameID
func (ti *TokenIssuer) GenerateSpectatorToken(gameID, spectatorID string) (string, error) {
	now := ti.now()
	claims := &SpectatorClaims{
		GameID:      gameID,
		SpectatorID: spectatorID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ti.secret)
}

// ValidateSpectatorToken validates a token and returns its claims
func (ti *TokenIssuer) ValidateSpectatorToken(tokenString string) (*SpectatorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SpectatorClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return ti.secret, nil
	}, jwt.WithTimeFunc(ti.now))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SpectatorClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

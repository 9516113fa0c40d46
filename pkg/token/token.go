package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Manager signs and validates invitation tokens
type Manager struct {
	secret string
	expiry time.Duration
	issuer string
}

// NewManager creates a new invitation token manager
func NewManager(secret string, expiry time.Duration) *Manager {
	return &Manager{
		secret: secret,
		expiry: expiry,
		issuer: "conference-scheduler",
	}
}

// GenerateInvitationToken signs a token for one conference participant
func (m *Manager) GenerateInvitationToken(conferenceAddress, participant, subject string) (string, error) {
	now := time.Now()
	claims := &InvitationClaims{
		ConferenceAddress: conferenceAddress,
		Participant:       participant,
		Subject:           subject,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Subject:   participant,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secret))
}

// ValidateInvitationToken validates and parses an invitation token
func (m *Manager) ValidateInvitationToken(tokenString string) (*InvitationClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &InvitationClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*InvitationClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

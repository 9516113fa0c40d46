package token

import (
	"github.com/golang-jwt/jwt/v5"
)

// InvitationClaims carries what a recipient needs to join a conference.
type InvitationClaims struct {
	ConferenceAddress string `json:"conference_address"`
	Participant       string `json:"participant"`
	Subject           string `json:"subject"`
	jwt.RegisteredClaims
}

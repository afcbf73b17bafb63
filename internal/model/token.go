package model

import "github.com/google/uuid"

// TokenManager issues and validates bearer tokens identifying an owner.
type TokenManager interface {
	GenerateAccessToken(ownerID uuid.UUID) (string, error)
	ParseAccessToken(token string) (uuid.UUID, error)
}

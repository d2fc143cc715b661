package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnauthorized = errors.New("unauthorized")
var ErrSessionNotFound = errors.New("session not found")

// Identity is the canonical authenticated principal for one request.
type Identity struct {
	UserID int64 `json:"user_id"`
}

// Credential is the proof of identity extracted from a request. Exactly one
// variant backs any given value: a raw signed token or a server-side session id.
type Credential interface {
	isCredential()
}

type TokenCredential struct {
	Raw string
}

type SessionCredential struct {
	ID string
}

func (TokenCredential) isCredential()   {}
func (SessionCredential) isCredential() {}

// AuthStatus reports whether a credential resolved to a live identity.
// Identity is nil whenever IsAuthenticated is false.
type AuthStatus struct {
	IsAuthenticated bool      `json:"isAuthenticated"`
	Identity        *Identity `json:"user"`
}

// ToSessionPayload and FromSessionPayload are the session store's codec for
// Identity values.
func ToSessionPayload(id Identity) []byte {
	payload, _ := json.Marshal(id)
	return payload
}

func FromSessionPayload(payload []byte) (Identity, error) {
	var id Identity
	if err := json.Unmarshal(payload, &id); err != nil {
		return Identity{}, fmt.Errorf("malformed session payload: %w", err)
	}
	return id, nil
}

package services

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// oauthState round-trips through the consent page. The nonce makes every
// state unique so the callback can match it against the browser cookie.
type oauthState struct {
	Nonce string `json:"n"`
	Flow  string `json:"flow"`
}

func normalizeFlow(flow string) string {
	if flow == FlowRegister {
		return FlowRegister
	}
	return FlowLogin
}

func newState(flow string) (string, error) {
	payload, err := json.Marshal(oauthState{Nonce: rand.Text(), Flow: normalizeFlow(flow)})
	if err != nil {
		return "", fmt.Errorf("encode oauth state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(payload), nil
}

func parseState(state string) (oauthState, error) {
	raw, err := base64.RawURLEncoding.DecodeString(state)
	if err != nil {
		return oauthState{}, fmt.Errorf("%w: malformed oauth state", ErrInvalidInput)
	}
	var s oauthState
	if err := json.Unmarshal(raw, &s); err != nil || s.Nonce == "" {
		return oauthState{}, fmt.Errorf("%w: malformed oauth state", ErrInvalidInput)
	}
	s.Flow = normalizeFlow(s.Flow)
	return s, nil
}

package models

import "encoding/json"

// Credentials is the body sent to the login and register endpoints.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// AuthResponse is a successful login or registration. Token is the bearer
// credential; Raw keeps the full response body for callers that need the
// other fields.
type AuthResponse struct {
	Token string          `json:"token"`
	Raw   json.RawMessage `json:"-"`
}

func (a *AuthResponse) UnmarshalJSON(data []byte) error {
	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}
	a.Token = body.Token
	a.Raw = append(a.Raw[:0], data...)
	return nil
}

// ErrorResponse is the error body the backend sends with non-2xx statuses.
type ErrorResponse struct {
	Error string `json:"error"`
}

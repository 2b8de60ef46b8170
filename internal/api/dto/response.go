package dto

// Envelope is the uniform response body: {success, message, data}.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// OK wraps a successful response.
func OK(message string, data any) Envelope {
	return Envelope{Success: true, Message: message, Data: data}
}

// LoginData is the token block returned on successful login.
type LoginData struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
	Provider    any    `json:"provider,omitempty"`
	Patient     any    `json:"patient,omitempty"`
}

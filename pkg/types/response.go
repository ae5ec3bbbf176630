package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// StorefrontResponse is the flat body every storefront XHR endpoint answers
// with. Endpoint specific fields are merged in next to these.
type StorefrontResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message,omitempty"`
	MessageType string `json:"message_type,omitempty"`
	Error       string `json:"error,omitempty"`
}

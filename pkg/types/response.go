package types

// SuccessEnvelope wraps every successful storefront response body. The
// one exception is the gateway webhook, which answers with a bare
// payload because the gateway's delivery contract predates the envelope.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error shape. Details carries field-level
// validation messages or stock shortfall info when the code allows it.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every error response body.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

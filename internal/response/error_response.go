package response

// ErrorEnvelope is the body of every failed request.
type ErrorEnvelope struct {
	Error string `json:"error"`
}

package types

// StatusResponse is returned for an accepted submission.
type StatusResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

// ErrorResponse carries a short, stable error message.
type ErrorResponse struct {
	Error string `json:"error"`
}

package response

// StandardApiResponse is the envelope every API handler writes. Status is
// "success" or "error"; Errors carries validation or error details.
type StandardApiResponse struct {
	Status     string      `json:"status"`
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
}

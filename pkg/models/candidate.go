package models

// Candidate is a file offered for analysis before validation
type Candidate struct {
	Name     string
	MIMEType string
	Size     int64
	Data     []byte
}

// ErrorResponse is the JSON error body of the web front end
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

package dto

// Res is the legacy response envelope used by auth endpoints and middleware.
type Res struct {
	ResponseCode    string      `json:"response_code"`
	ResponseMessage string      `json:"response_message"`
	Data            interface{} `json:"data,omitempty"`
}

// Err is the uniform error body for non-2xx responses.
type Err struct {
	Message string `json:"message"`
}

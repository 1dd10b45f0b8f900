package model

// Result is the uniform envelope every orchestrator operation returns to the
// front-end. On failure ErrorKind carries one of the stable kinds and
// Retriable tells the user whether repeating the action can succeed.
type Result struct {
	Success     bool   `json:"success"`
	Data        any    `json:"data,omitempty"`
	ErrorKind   string `json:"errorKind,omitempty"`
	ErrorDetail string `json:"errorDetail,omitempty"`
	Retriable   bool   `json:"retriable,omitempty"`
}

// OK wraps a payload in a successful result.
func OK(data any) Result {
	return Result{Success: true, Data: data}
}

// Fail maps an error to its stable kind and detail.
func Fail(err error) Result {
	return Result{
		Success:     false,
		ErrorKind:   KindOf(err),
		ErrorDetail: err.Error(),
		Retriable:   IsRetriable(err),
	}
}

package app

// Response is the envelope every boundary operation returns.
// Exactly one of Data and Error is meaningful, selected by Success.
type Response struct {
	Success bool   `json:"success" yaml:"success"`
	Data    any    `json:"data,omitempty" yaml:"data,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

func ok(data any) Response {
	return Response{Success: true, Data: data}
}

func fail(err error) Response {
	return Response{Success: false, Error: err.Error()}
}

package api

// MutationResponse wraps the result of a create or edit. Warning is set when
// the document was saved but a secondary effect failed.
type MutationResponse[T any] struct {
	Data    T      `json:"data"`
	Warning string `json:"warning,omitempty"`
}

type DeleteResponse struct {
	Deleted int    `json:"deleted"`
	Warning string `json:"warning,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Msg string `json:"msg"`
}

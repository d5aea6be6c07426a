package request

import "fmt"

// Message is the body of a plain monitoring response.
type Message struct {
	Message string `json:"message"`
}

// NewMessage creates a message, formatting it when args are given.
func NewMessage(message string, args ...any) *Message {
	if len(args) > 0 {
		message = fmt.Sprintf(message, args...)
	}
	return &Message{
		Message: message,
	}
}

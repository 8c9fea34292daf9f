package common

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnsuccessful = errors.New("api: request was not successful")

// Envelope is the `{success, message, data}` wrapper most endpoints answer with.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Err reports a `success: false` answer as ErrUnsuccessful with the server message.
func (e *Envelope) Err() error {
	if e.Success {
		return nil
	}
	msg := e.Message
	if msg == "" {
		msg = "no message"
	}
	return fmt.Errorf("%w: %s", ErrUnsuccessful, msg)
}

// Decode unmarshals Data into v. Empty data leaves v untouched.
func (e *Envelope) Decode(v any) error {
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("api: can't decode response data, %w", err)
	}
	return nil
}

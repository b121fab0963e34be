package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Reply statuses.
const (
	StatusSuccess = "Success"
	StatusError   = "Error"
)

// Reply is the decrypted API reply.
type Reply struct {
	Code    int             `json:"code"`
	Message string          `json:"message,omitempty"`
	Status  string          `json:"status,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Errors  any             `json:"errors,omitempty"`
}

// OK reports whether the reply is a success. Replies without a status are judged by
// their code.
func (r *Reply) OK() bool {
	switch r.Status {
	case StatusSuccess:
		return true
	case StatusError:
		return false
	}
	return r.Code == 0 || (r.Code >= 200 && r.Code < 300)
}

// Decode unmarshals Data into dst. A missing or null data object leaves dst untouched.
func (r *Reply) Decode(dst any) error {
	if len(r.Data) == 0 || string(r.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(r.Data, dst); err != nil {
		return fmt.Errorf("decode reply data: %w", err)
	}
	return nil
}

// APIError is returned when the API answers with an error reply or an error status.
type APIError struct {
	HTTPStatus int
	Code       int
	Status     string
	Message    string
	Errors     any
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.HTTPStatus)
	}
	if e.Code != 0 {
		return fmt.Sprintf("api error %d (http %d): %s", e.Code, e.HTTPStatus, msg)
	}
	return fmt.Sprintf("api error (http %d): %s", e.HTTPStatus, msg)
}

// Unwrap makes errors.Is(err, ErrUnsuccessfulReply) hold.
func (e *APIError) Unwrap() error {
	return ErrUnsuccessfulReply
}

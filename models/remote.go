package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// StatusSuccess is the only status value the gallery backend uses to signal
// a successful mutation.
const StatusSuccess = "success"

// RemotePhoto is a photo as returned by the gallery backend list endpoint.
type RemotePhoto struct {
	ID          RemoteID `json:"id"`
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	ImageURL    string   `json:"imageUrl"`
}

// OpStatus is the response body of every mutating endpoint.
type OpStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Succeeded reports whether the backend accepted the mutation. Any value
// other than "success" is a failure regardless of the HTTP status code.
func (o OpStatus) Succeeded() bool {
	return o.Status == StatusSuccess
}

// RemoteID is a server-assigned photo identifier. The backend may encode it
// either as a JSON string or as a number.
type RemoteID string

func (id *RemoteID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = RemoteID(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("remote id must be a string or a number: %w", err)
	}
	*id = RemoteID(n.String())
	return nil
}

func (id RemoteID) String() string {
	return string(id)
}

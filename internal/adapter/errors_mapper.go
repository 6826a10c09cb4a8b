package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-photo-sync/internal/app"
	"github.com/MKhiriev/go-photo-sync/models"
)

// mapTransportError classifies a failed round-trip (no response at all).
func mapTransportError(op string, err error) error {
	return app.NewError(app.KindTransport, app.MsgNetworkUnavailable, fmt.Errorf("%s request: %w", op, err))
}

// mapHTTPError returns nil for 2xx responses. 401 becomes an auth error;
// every other status is a remote rejection carrying the server message,
// the body, or the status text, in that order of preference.
func mapHTTPError(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= http.StatusOK && code < http.StatusMultipleChoices {
		return nil
	}

	if code == http.StatusUnauthorized {
		return app.NewError(app.KindAuth, app.MsgUnauthorized, fmt.Errorf("http %d", code))
	}

	return app.NewError(app.KindRemoteRejection, responseMessage(resp), fmt.Errorf("http %d", code))
}

// decodeOpStatus interprets the body of a mutating endpoint. A readable
// {status, message} body is returned as is, whatever the HTTP code, so the
// caller can treat a non-"success" status as an outcome rather than an error.
func decodeOpStatus(resp *resty.Response) (models.OpStatus, error) {
	if resp.StatusCode() == http.StatusUnauthorized {
		return models.OpStatus{}, mapHTTPError(resp)
	}

	var status models.OpStatus
	if err := json.Unmarshal(resp.Body(), &status); err == nil && status.Status != "" {
		return status, nil
	}

	if err := mapHTTPError(resp); err != nil {
		return models.OpStatus{}, err
	}

	return models.OpStatus{}, app.NewError(app.KindRemoteRejection, ErrMalformedResponse.Error(),
		fmt.Errorf("%w: %q", ErrMalformedResponse, truncate(string(resp.Body()), 200)))
}

func responseMessage(resp *resty.Response) string {
	var status models.OpStatus
	if err := json.Unmarshal(resp.Body(), &status); err == nil && status.Message != "" {
		return status.Message
	}

	if body := strings.TrimSpace(string(resp.Body())); body != "" {
		return truncate(body, 200)
	}

	if text := http.StatusText(resp.StatusCode()); text != "" {
		return text
	}
	return app.MsgRemoteRejected
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

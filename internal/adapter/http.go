package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-photo-sync/internal/app"
	"github.com/MKhiriev/go-photo-sync/internal/config"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/utils"
	"github.com/MKhiriev/go-photo-sync/models"
)

const (
	listPath   = "api/photos/list.php"
	createPath = "api/photos/create.php"
	updatePath = "api/photos/update_all.php"
	deletePath = "api/photos/delete.php"

	uploadFileName    = "image.jpg"
	uploadContentType = "image/jpeg"
)

type httpRemoteCatalog struct {
	client *utils.HTTPClient
	logger *logger.Logger
}

// NewHTTPRemoteCatalog constructs the resty implementation of
// [RemoteCatalog]. The base URL may carry a path prefix; endpoints are
// resolved below it.
//
// Returns an error if cfg.BaseURL is empty or cannot be parsed.
func NewHTTPRemoteCatalog(cfg config.ClientAdapter, log *logger.Logger) (RemoteCatalog, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter base url: %w", err)
	}

	client := utils.NewHTTPClient()
	client.
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	return &httpRemoteCatalog{client: client, logger: log}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// authedRequest prepares a request carrying identity as the Authorization
// header value.
func (h *httpRemoteCatalog) authedRequest(ctx context.Context, identity string) (*resty.Request, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return nil, app.NewError(app.KindAuth, app.MsgNoIdentity, ErrEmptyIdentity)
	}

	return h.client.R().
		SetContext(ctx).
		SetHeader("Authorization", identity), nil
}

// List implements [RemoteCatalog]. GET api/photos/list.php returns a JSON
// array of photos.
func (h *httpRemoteCatalog) List(ctx context.Context, identity string) ([]models.RemotePhoto, error) {
	req, err := h.authedRequest(ctx, identity)
	if err != nil {
		return nil, err
	}

	resp, err := req.Get(listPath)
	if err != nil {
		h.logger.Err(err).Str("func", "httpRemoteCatalog.List").Msg("list request failed")
		return nil, mapTransportError("list", err)
	}
	if err = mapHTTPError(resp); err != nil {
		h.logger.Warn().Str("func", "httpRemoteCatalog.List").Int("status", resp.StatusCode()).Msg("list rejected")
		return nil, err
	}

	var photos []models.RemotePhoto
	if err = json.Unmarshal(resp.Body(), &photos); err != nil {
		// the backend answers an application error with an object instead
		// of an array
		var status models.OpStatus
		if jerr := json.Unmarshal(resp.Body(), &status); jerr == nil && status.Status != "" {
			return nil, app.NewError(app.KindRemoteRejection, nonEmpty(status.Message, app.MsgRemoteRejected), nil)
		}
		h.logger.Err(err).Str("func", "httpRemoteCatalog.List").Msg("failed to decode photo list")
		return nil, app.NewError(app.KindRemoteRejection, ErrMalformedResponse.Error(), fmt.Errorf("%w: %w", ErrMalformedResponse, err))
	}

	h.logger.Debug().Str("func", "httpRemoteCatalog.List").Int("count", len(photos)).Msg("photos listed")
	return photos, nil
}

// Create implements [RemoteCatalog]. POST api/photos/create.php as
// multipart/form-data with title, description and the photo file.
func (h *httpRemoteCatalog) Create(ctx context.Context, identity string, draft models.PhotoDraft) (models.OpStatus, error) {
	req, err := h.authedRequest(ctx, identity)
	if err != nil {
		return models.OpStatus{}, err
	}

	req.SetMultipartFormData(map[string]string{
		"title":       draft.Title,
		"description": draft.Description,
	})
	if len(draft.Image) > 0 {
		req.SetMultipartField("photo", uploadFileName, uploadContentType, bytes.NewReader(draft.Image))
	}

	resp, err := req.Post(createPath)
	if err != nil {
		h.logger.Err(err).Str("func", "httpRemoteCatalog.Create").Msg("create request failed")
		return models.OpStatus{}, mapTransportError("create", err)
	}

	return h.outcome("httpRemoteCatalog.Create", resp)
}

// Update implements [RemoteCatalog]. POST api/photos/update_all.php as
// multipart/form-data; only the provided fields are sent.
func (h *httpRemoteCatalog) Update(ctx context.Context, identity string, update models.PhotoUpdate) (models.OpStatus, error) {
	req, err := h.authedRequest(ctx, identity)
	if err != nil {
		return models.OpStatus{}, err
	}

	fields := map[string]string{"id": update.RemoteKey}
	if update.Title != nil {
		fields["title"] = *update.Title
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	req.SetMultipartFormData(fields)
	if len(update.Image) > 0 {
		req.SetMultipartField("photo", uploadFileName, uploadContentType, bytes.NewReader(update.Image))
	}

	resp, err := req.Post(updatePath)
	if err != nil {
		h.logger.Err(err).Str("func", "httpRemoteCatalog.Update").Str("remote_key", update.RemoteKey).Msg("update request failed")
		return models.OpStatus{}, mapTransportError("update", err)
	}

	return h.outcome("httpRemoteCatalog.Update", resp)
}

// Delete implements [RemoteCatalog]. DELETE api/photos/delete.php?id=<key>.
func (h *httpRemoteCatalog) Delete(ctx context.Context, identity string, remoteKey string) (models.OpStatus, error) {
	req, err := h.authedRequest(ctx, identity)
	if err != nil {
		return models.OpStatus{}, err
	}

	resp, err := req.SetQueryParam("id", remoteKey).Delete(deletePath)
	if err != nil {
		h.logger.Err(err).Str("func", "httpRemoteCatalog.Delete").Str("remote_key", remoteKey).Msg("delete request failed")
		return models.OpStatus{}, mapTransportError("delete", err)
	}

	return h.outcome("httpRemoteCatalog.Delete", resp)
}

func (h *httpRemoteCatalog) outcome(fn string, resp *resty.Response) (models.OpStatus, error) {
	status, err := decodeOpStatus(resp)
	if err != nil {
		h.logger.Warn().Str("func", fn).Int("status", resp.StatusCode()).Err(err).Msg("mutation failed")
		return models.OpStatus{}, err
	}

	h.logger.Debug().
		Str("func", fn).
		Int("status", resp.StatusCode()).
		Str("outcome", status.Status).
		Msg("mutation answered")
	return status, nil
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

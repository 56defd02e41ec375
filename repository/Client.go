package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"eshopClient/localstore"
	"eshopClient/models"

	"github.com/google/uuid"
)

// Client is the shared HTTP transport for all repositories. It attaches
// the bearer credential from the local store to every request (the token
// is re-read per request, so a logout takes effect immediately) and maps
// responses onto the sentinel error taxonomy. Both the HTTP status and
// the success field of the envelope are failure signals.
type Client struct {
	baseURL string
	http    *http.Client
	store   localstore.Store
}

func NewClient(baseURL string, store localstore.Store) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("baseURL must be non-empty")
	}
	if store == nil {
		return nil, errors.New("store must be non-nil")
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		store:   store,
	}, nil
}

type responseEnvelope interface {
	Ok() bool
	FailureMessage() string
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target = target + "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			log.Printf("do: Marshal: %v", err)
			return models.NewAPIError(models.ErrBadRequest, "")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		log.Printf("do: %v", err)
		return models.NewAPIError(models.ErrBadRequest, "")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	token, exists, err := c.store.Get(localstore.KeyToken)
	if err != nil {
		log.Printf("do: token read: %v", err)
	}
	if exists && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("do: %s %s: %v", method, path, err)
		return models.NewAPIError(models.ErrServerError, "")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("do: read body: %v", err)
		return models.NewAPIError(models.ErrServerError, "")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// best effort: the backend usually ships an envelope with the
		// reason even on error statuses
		var env models.Envelope
		json.Unmarshal(data, &env)
		return models.NewAPIError(kindForStatus(resp.StatusCode), env.FailureMessage())
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			log.Printf("do: Unmarshal: %v", err)
			return models.NewAPIError(models.ErrServerError, "")
		}
	}
	return nil
}

// doEnvelope runs do and additionally rejects success=false responses,
// which the backend can send on HTTP 200.
func (c *Client) doEnvelope(ctx context.Context, method, path string, query url.Values, body any, out responseEnvelope) error {
	if err := c.do(ctx, method, path, query, body, out); err != nil {
		return err
	}
	if !out.Ok() {
		return models.NewAPIError(models.ErrBadRequest, out.FailureMessage())
	}
	return nil
}

func kindForStatus(code int) error {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return models.ErrUnauthorized
	case code == http.StatusNotFound:
		return models.ErrNotFound
	case code == http.StatusNotAcceptable:
		return models.ErrNotAllowed
	case code >= 400 && code < 500:
		return models.ErrBadRequest
	default:
		return models.ErrServerError
	}
}

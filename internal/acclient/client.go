// Package acclient talks to the external AC registry (the demo AC API in
// development). The registry owns serial verification and the physical
// device state; this client only reports what it answered.
package acclient

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"airwise/internal/boundary"
)

var (
	// ErrNotFound means the registry does not know the serial.
	ErrNotFound = errors.New("ac not found in external system")
	// ErrBadRequest means the registry rejected the submitted state.
	ErrBadRequest = errors.New("ac registry rejected the request")
)

// Response is the registry's envelope for both lookups and updates.
type Response struct {
	Message string            `json:"message"`
	ACState *boundary.ACState `json:"acState"`
	Code    int               `json:"code"`
}

type Client struct {
	rest *resty.Client
}

func New(baseURL string) *Client {
	rest := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Accept", "application/json")
	return &Client{rest: rest}
}

// GetStateBySerial fetches the registry record of one unit.
func (c *Client) GetStateBySerial(serial string) (*Response, error) {
	var out Response
	resp, err := c.rest.R().
		SetResult(&out).
		SetError(&out).
		Get("/" + serial)
	if err != nil {
		return nil, fmt.Errorf("calling ac registry: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%w: serial %s", ErrNotFound, serial)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("ac registry returned %d: %s", resp.StatusCode(), out.Message)
	}
	return &out, nil
}

// SetState pushes a (possibly partial) state onto one unit. Only the
// attributes present in attrs are submitted; the registry leaves the rest
// unchanged.
func (c *Client) SetState(serial string, attrs map[string]any) (*Response, error) {
	var out Response
	resp, err := c.rest.R().
		SetHeader("Content-Type", "application/json").
		SetBody(attrs).
		SetResult(&out).
		SetError(&out).
		Post("/" + serial + "/set")
	if err != nil {
		return nil, fmt.Errorf("calling ac registry: %w", err)
	}
	switch {
	case resp.StatusCode() == http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %s", ErrBadRequest, out.Message)
	case resp.StatusCode() == http.StatusNotFound:
		return nil, fmt.Errorf("%w: serial %s", ErrNotFound, serial)
	case resp.IsError():
		return nil, fmt.Errorf("ac registry returned %d: %s", resp.StatusCode(), out.Message)
	}
	return &out, nil
}

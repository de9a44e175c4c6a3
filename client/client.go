// Package client is the Go SDK of the AirWise API: a thin resty wrapper
// over the REST surface plus the higher-level consumer flows (aggregate
// counting, task scheduling, session keeping).
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"airwise/internal/boundary"
)

var (
	// ErrNotRegistered is returned by Login for emails the server does
	// not know; callers respond by registering.
	ErrNotRegistered = errors.New("user is not registered")
	// ErrRejected wraps any 4xx the server answered with.
	ErrRejected = errors.New("request rejected")
)

type Client struct {
	rest     *resty.Client
	systemID string
}

func New(baseURL, systemID string) *Client {
	rest := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetHeader("Accept", "application/json")
	return &Client{rest: rest, systemID: systemID}
}

// SystemID reports the deployment this client talks to.
func (c *Client) SystemID() string {
	return c.systemID
}

func (c *Client) actingQuery(userEmail string) map[string]string {
	return map[string]string{
		"userSystemID": c.systemID,
		"userEmail":    userEmail,
	}
}

func pagingQuery(size, page int) map[string]string {
	return map[string]string{
		"size": fmt.Sprintf("%d", size),
		"page": fmt.Sprintf("%d", page),
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func rejected(resp *resty.Response) error {
	var body errorBody
	_ = json.Unmarshal(resp.Body(), &body)
	if body.Error == "" {
		body.Error = resp.Status()
	}
	return fmt.Errorf("%w (%d): %s", ErrRejected, resp.StatusCode(), body.Error)
}

// CreateObject creates one object; the createdBy inside the boundary is
// the acting operator.
func (c *Client) CreateObject(obj *boundary.ObjectBoundary) (*boundary.ObjectBoundary, error) {
	var created boundary.ObjectBoundary
	resp, err := c.rest.R().
		SetBody(obj).
		SetResult(&created).
		Post("/objects")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, rejected(resp)
	}
	return &created, nil
}

func (c *Client) GetObject(objectID, userEmail string) (*boundary.ObjectBoundary, error) {
	var obj boundary.ObjectBoundary
	resp, err := c.rest.R().
		SetQueryParams(c.actingQuery(userEmail)).
		SetResult(&obj).
		Get("/objects/" + c.systemID + "/" + objectID)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, rejected(resp)
	}
	return &obj, nil
}

// UpdateObject sends a full-object update. There is no partial patch:
// fetch, merge, then call this.
func (c *Client) UpdateObject(objectID string, obj *boundary.ObjectBoundary, userEmail string) error {
	resp, err := c.rest.R().
		SetQueryParams(c.actingQuery(userEmail)).
		SetBody(obj).
		Put("/objects/" + c.systemID + "/" + objectID)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return rejected(resp)
	}
	return nil
}

// BindChild attaches childID under parentID. The child must already exist.
func (c *Client) BindChild(parentID, childID, userEmail string) error {
	body := boundary.ChildID{ChildID: boundary.ObjectID{SystemID: c.systemID, ObjectID: childID}}
	resp, err := c.rest.R().
		SetQueryParams(c.actingQuery(userEmail)).
		SetBody(body).
		Put("/objects/" + c.systemID + "/" + parentID + "/children")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return rejected(resp)
	}
	return nil
}

// GetChildren lists the children of a parent. A 404 means "none", not an
// error; the empty slice comes back with a nil error.
func (c *Client) GetChildren(parentID, userEmail string, size, page int) ([]boundary.ObjectBoundary, error) {
	var children []boundary.ObjectBoundary
	resp, err := c.rest.R().
		SetQueryParams(c.actingQuery(userEmail)).
		SetQueryParams(pagingQuery(size, page)).
		SetResult(&children).
		Get("/objects/" + c.systemID + "/" + parentID + "/children")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusNotFound {
		return []boundary.ObjectBoundary{}, nil
	}
	if resp.IsError() {
		return nil, rejected(resp)
	}
	return children, nil
}

// SearchByAlias looks objects up by exact alias; 404 folds to empty.
func (c *Client) SearchByAlias(alias, userEmail string, size, page int) ([]boundary.ObjectBoundary, error) {
	return c.searchList("/objects/search/byAlias/"+alias, userEmail, size, page)
}

// SearchByAliasPattern matches alias prefixes; 404 folds to empty.
func (c *Client) SearchByAliasPattern(pattern, userEmail string, size, page int) ([]boundary.ObjectBoundary, error) {
	return c.searchList("/objects/search/byAliasPattern/"+pattern, userEmail, size, page)
}

// SearchByType lists objects of one type tag; 404 folds to empty.
func (c *Client) SearchByType(objType, userEmail string, size, page int) ([]boundary.ObjectBoundary, error) {
	return c.searchList("/objects/search/byType/"+objType, userEmail, size, page)
}

func (c *Client) searchList(path, userEmail string, size, page int) ([]boundary.ObjectBoundary, error) {
	var objs []boundary.ObjectBoundary
	resp, err := c.rest.R().
		SetQueryParams(c.actingQuery(userEmail)).
		SetQueryParams(pagingQuery(size, page)).
		SetResult(&objs).
		Get(path)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusNotFound {
		return []boundary.ObjectBoundary{}, nil
	}
	if resp.IsError() {
		return nil, rejected(resp)
	}
	return objs, nil
}

// InvokeCommand submits a command envelope. The response shape depends on
// the command, so the raw JSON comes back for the caller to decode.
func (c *Client) InvokeCommand(cmd *boundary.CommandBoundary) (json.RawMessage, error) {
	resp, err := c.rest.R().
		SetBody(cmd).
		Post("/commands")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, rejected(resp)
	}
	return json.RawMessage(resp.Body()), nil
}

// NewCommand builds a command envelope aimed at one object.
func (c *Client) NewCommand(command, targetObjectID, userEmail string, attrs map[string]any) *boundary.CommandBoundary {
	return &boundary.CommandBoundary{
		Command: command,
		TargetObject: boundary.TargetObject{
			ID: boundary.ObjectID{SystemID: c.systemID, ObjectID: targetObjectID},
		},
		InvokedBy: boundary.InvokedBy{
			UserID: boundary.UserID{SystemID: c.systemID, Email: userEmail},
		},
		CommandAttributes: attrs,
	}
}

// Register creates a user account.
func (c *Client) Register(newUser *boundary.NewUserBoundary) (*boundary.UserBoundary, error) {
	var created boundary.UserBoundary
	resp, err := c.rest.R().
		SetBody(newUser).
		SetResult(&created).
		Post("/users")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, rejected(resp)
	}
	return &created, nil
}

// Login fetches the user record of an email. Unknown emails surface as
// ErrNotRegistered so the caller can register instead.
func (c *Client) Login(email string) (*boundary.UserBoundary, error) {
	var user boundary.UserBoundary
	resp, err := c.rest.R().
		SetResult(&user).
		Get("/users/login/" + c.systemID + "/" + email)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusForbidden || resp.StatusCode() == http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, email)
	}
	if resp.IsError() {
		return nil, rejected(resp)
	}
	return &user, nil
}

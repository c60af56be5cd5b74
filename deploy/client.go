package deploy

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// APIError is any non-success outcome of the external deploy service: non-2xx
// responses, transport errors and timeouts all classify here. It is produced
// at the call site, never inferred from error text.
type APIError struct {
	Status int // 0 when the request never completed
	Err    error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("deploy API failure: %v", e.Err)
	}
	return fmt.Sprintf("deploy API returned status %d", e.Status)
}

func (e *APIError) Unwrap() error { return e.Err }

// Deployment is the external service's view of a started job.
type Deployment struct {
	Id     string `json:"id"`
	Status string `json:"status"`
}

// Deployer starts and stops jobs on the external deployment service.
type Deployer interface {
	Deploy(ctx context.Context, serviceID string) (*Deployment, error)
	Stop(ctx context.Context, serviceID, deploymentID string) error
}

// Client talks to the Render deploy API with a bounded request timeout; a
// timeout is treated like any other external failure.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetAuthToken(apiKey).
		SetHeader("Accept", "application/json")
	return &Client{http: http}
}

func (c *Client) Deploy(ctx context.Context, serviceID string) (*Deployment, error) {
	var out Deployment
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Post(fmt.Sprintf("/services/%s/deploys", serviceID))
	if err != nil {
		return nil, &APIError{Err: err}
	}
	if !resp.IsSuccess() {
		return nil, &APIError{Status: resp.StatusCode()}
	}
	return &out, nil
}

func (c *Client) Stop(ctx context.Context, serviceID, deploymentID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Post(fmt.Sprintf("/services/%s/deploys/%s/cancel", serviceID, deploymentID))
	if err != nil {
		return &APIError{Err: err}
	}
	if !resp.IsSuccess() {
		return &APIError{Status: resp.StatusCode()}
	}
	return nil
}

// Package api implements the typed HTTP client for the property backend.
// All domain data is owned by the backend; this client only fetches, sends,
// and maps the wire contract onto Go types.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// SessionCookie is the backend's signed session cookie name.
const SessionCookie = "vbr_session"

// ErrUnauthorized is returned for any 401 response. Callers must treat it as
// a forced logout: clear the session and return to the login view.
var ErrUnauthorized = errors.New("api: not authenticated")

// StatusError is returned for any non-2xx response other than 401. It
// surfaces the raw HTTP status and response body, which is all the backend
// defines.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api: %d: %s", e.Status, e.Body)
}

// Client talks to the property backend under its /api base path.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// Opts holds parameters for creating a Client.
type Opts struct {
	BaseURL string        // backend root, e.g. "http://127.0.0.1:8000"
	Cookie  string        // session cookie value; empty before login
	Timeout time.Duration // per-request timeout; zero means no timeout
	Logger  *zap.Logger   // optional
}

// New creates a Client.
func New(opts Opts) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("api: base url is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	hc := resty.New().
		SetBaseURL(opts.BaseURL+"/api").
		SetTimeout(opts.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if opts.Cookie != "" {
		hc.SetCookie(&http.Cookie{Name: SessionCookie, Value: opts.Cookie})
	}

	return &Client{http: hc, logger: logger}, nil
}

// SetCookie replaces the session cookie used on subsequent requests.
func (c *Client) SetCookie(value string) {
	c.http.Cookies = nil
	if value != "" {
		c.http.SetCookie(&http.Cookie{Name: SessionCookie, Value: value})
	}
}

// checkStatus maps a completed response to the error contract: nil for 2xx,
// ErrUnauthorized for 401, *StatusError otherwise.
func (c *Client) checkStatus(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	err := &StatusError{Status: resp.StatusCode(), Body: string(resp.Body())}
	c.logger.Warn("api request failed",
		zap.String("url", resp.Request.URL),
		zap.Int("status", err.Status),
	)
	return err
}

// Login exchanges a PIN for a session. On success it returns the role and
// the session cookie value, and adopts the cookie for subsequent requests.
func (c *Client) Login(ctx context.Context, pin string) (role, cookie string, err error) {
	var result struct {
		Role string `json:"role"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"pin": pin}).
		SetResult(&result).
		Post("/auth/login")
	if err != nil {
		return "", "", fmt.Errorf("api: login: %w", err)
	}
	if err := c.checkStatus(resp); err != nil {
		return "", "", err
	}
	for _, ck := range resp.Cookies() {
		if ck.Name == SessionCookie {
			cookie = ck.Value
		}
	}
	c.SetCookie(cookie)
	return result.Role, cookie, nil
}

// Check queries the current session state.
func (c *Client) Check(ctx context.Context) (*CheckResult, error) {
	var result CheckResult
	resp, err := c.http.R().SetContext(ctx).SetResult(&result).Get("/auth/check")
	if err != nil {
		return nil, fmt.Errorf("api: auth check: %w", err)
	}
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}
	return &result, nil
}

// Conversations fetches the full conversation summary collection.
func (c *Client) Conversations(ctx context.Context) ([]Conversation, error) {
	var result []Conversation
	resp, err := c.http.R().SetContext(ctx).SetResult(&result).Get("/conversations")
	if err != nil {
		return nil, fmt.Errorf("api: conversations: %w", err)
	}
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}
	return result, nil
}

// Thread fetches the reservation and full message history for a conversation.
func (c *Client) Thread(ctx context.Context, reservationID int) (*Thread, error) {
	var result Thread
	resp, err := c.http.R().SetContext(ctx).SetResult(&result).
		Get("/conversations/" + strconv.Itoa(reservationID) + "/messages")
	if err != nil {
		return nil, fmt.Errorf("api: thread %d: %w", reservationID, err)
	}
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}
	return &result, nil
}

// SendMessage sends a host message, optionally carrying AI draft provenance.
func (c *Client) SendMessage(ctx context.Context, reservationID int, req SendRequest) (*SendResult, error) {
	var result SendResult
	resp, err := c.http.R().SetContext(ctx).SetBody(req).SetResult(&result).
		Post("/conversations/" + strconv.Itoa(reservationID) + "/send")
	if err != nil {
		return nil, fmt.Errorf("api: send %d: %w", reservationID, err)
	}
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateDraft asks the backend AI for a reply suggestion.
func (c *Client) GenerateDraft(ctx context.Context, reservationID int) (*Draft, error) {
	var result Draft
	resp, err := c.http.R().SetContext(ctx).SetResult(&result).
		Post("/conversations/" + strconv.Itoa(reservationID) + "/draft")
	if err != nil {
		return nil, fmt.Errorf("api: draft %d: %w", reservationID, err)
	}
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}
	return &result, nil
}

// SyncListings pulls listings from the channel manager into the backend.
func (c *Client) SyncListings(ctx context.Context) (*SyncListingsResult, error) {
	var result SyncListingsResult
	resp, err := c.http.R().SetContext(ctx).SetResult(&result).Post("/sync/listings")
	if err != nil {
		return nil, fmt.Errorf("api: sync listings: %w", err)
	}
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}
	return &result, nil
}

// SyncReservations pulls reservations and embedded messages into the backend.
func (c *Client) SyncReservations(ctx context.Context) (*SyncReservationsResult, error) {
	var result SyncReservationsResult
	resp, err := c.http.R().SetContext(ctx).SetResult(&result).Post("/sync/reservations")
	if err != nil {
		return nil, fmt.Errorf("api: sync reservations: %w", err)
	}
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}
	return &result, nil
}

// Items fetches inventory items, optionally scoped to one location.
// locationID zero means all locations.
func (c *Client) Items(ctx context.Context, locationID int) ([]Item, error) {
	r := c.http.R().SetContext(ctx)
	if locationID > 0 {
		r.SetQueryParam("location_id", strconv.Itoa(locationID))
	}
	var result []Item
	resp, err := r.SetResult(&result).Get("/inventory/items")
	if err != nil {
		return nil, fmt.Errorf("api: items: %w", err)
	}
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}
	return result, nil
}

// Locations fetches the storage location hierarchy for both houses.
func (c *Client) Locations(ctx context.Context) ([]Location, error) {
	var result []Location
	resp, err := c.http.R().SetContext(ctx).SetResult(&result).Get("/inventory/locations")
	if err != nil {
		return nil, fmt.Errorf("api: locations: %w", err)
	}
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}
	return result, nil
}

// UnresolvedReports fetches open stock reports.
func (c *Client) UnresolvedReports(ctx context.Context) ([]Report, error) {
	var result []Report
	resp, err := c.http.R().SetContext(ctx).
		SetQueryParam("resolved", "false").
		SetResult(&result).
		Get("/inventory/reports")
	if err != nil {
		return nil, fmt.Errorf("api: reports: %w", err)
	}
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateReport files a low/missing stock report for an item.
func (c *Client) CreateReport(ctx context.Context, itemID int, reportType string) error {
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]any{"item_id": itemID, "report_type": reportType}).
		Post("/inventory/reports")
	if err != nil {
		return fmt.Errorf("api: create report: %w", err)
	}
	return c.checkStatus(resp)
}

// ResolveReport marks a report resolved.
func (c *Client) ResolveReport(ctx context.Context, reportID int) error {
	resp, err := c.http.R().SetContext(ctx).
		Put("/inventory/reports/" + strconv.Itoa(reportID) + "/resolve")
	if err != nil {
		return fmt.Errorf("api: resolve report %d: %w", reportID, err)
	}
	return c.checkStatus(resp)
}

// ShoppingList fetches the aggregated shopping entries.
func (c *Client) ShoppingList(ctx context.Context) ([]ShoppingEntry, error) {
	var result []ShoppingEntry
	resp, err := c.http.R().SetContext(ctx).SetResult(&result).Get("/inventory/shopping-list")
	if err != nil {
		return nil, fmt.Errorf("api: shopping list: %w", err)
	}
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}
	return result, nil
}

// SearchItems runs the AI-backed inventory search.
func (c *Client) SearchItems(ctx context.Context, query string) ([]Item, error) {
	var result struct {
		Items []Item `json:"items"`
	}
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]string{"query": query}).
		SetResult(&result).
		Post("/inventory/search")
	if err != nil {
		return nil, fmt.Errorf("api: search: %w", err)
	}
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// ParseItems parses free text into proposed inventory items.
func (c *Client) ParseItems(ctx context.Context, text string) ([]ProposedItem, error) {
	var result struct {
		Items []ProposedItem `json:"items"`
	}
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]string{"text": text}).
		SetResult(&result).
		Post("/inventory/ai/parse")
	if err != nil {
		return nil, fmt.Errorf("api: parse items: %w", err)
	}
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// BulkImportPreview parses a freeform text dump into a proposed item list
// without persisting anything.
func (c *Client) BulkImportPreview(ctx context.Context, text string) ([]ProposedItem, error) {
	var result struct {
		Items []ProposedItem `json:"items"`
	}
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]string{"text": text}).
		SetResult(&result).
		Post("/inventory/ai/bulk-import")
	if err != nil {
		return nil, fmt.Errorf("api: bulk import preview: %w", err)
	}
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// BulkImportConfirm persists a reviewed set of proposed items and returns
// the number added.
func (c *Client) BulkImportConfirm(ctx context.Context, items []ProposedItem) (int, error) {
	var result struct {
		Added int `json:"added"`
	}
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]any{"items": items}).
		SetResult(&result).
		Post("/inventory/ai/bulk-import/confirm")
	if err != nil {
		return 0, fmt.Errorf("api: bulk import confirm: %w", err)
	}
	if err := c.checkStatus(resp); err != nil {
		return 0, err
	}
	return result.Added, nil
}

// Health queries the backend health endpoint.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var result Health
	resp, err := c.http.R().SetContext(ctx).SetResult(&result).Get("/health")
	if err != nil {
		return nil, fmt.Errorf("api: health: %w", err)
	}
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}
	return &result, nil
}

// Stats queries message and reservation counts.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var result Stats
	resp, err := c.http.R().SetContext(ctx).SetResult(&result).Get("/stats")
	if err != nil {
		return nil, fmt.Errorf("api: stats: %w", err)
	}
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}
	return &result, nil
}

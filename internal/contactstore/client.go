// Package contactstore is a thin client for the contact store HTTP API,
// the downstream system of record for extracted contacts.
package contactstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cardspark/cardex/internal/extract"
)

// Client communicates with the contact store HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Contact is the store's record for one extracted card.
type Contact struct {
	ID          string         `json:"id,omitempty"`
	Fingerprint string         `json:"fingerprint"`
	Fields      extract.Fields `json:"fields"`
	SourceTitle string         `json:"sourceTitle,omitempty"`
	SourcePage  int            `json:"sourcePage,omitempty"`
	RawText     string         `json:"rawText,omitempty"`
	CapturedAt  string         `json:"capturedAt,omitempty"`
}

// RetryableError marks a store failure that is worth retrying
// (rate limits, transient server errors).
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Fingerprint derives a stable identity for a contact from its most
// distinguishing fields, for duplicate detection across uploads.
func Fingerprint(f extract.Fields) string {
	key := strings.ToLower(strings.Join([]string{
		f.Email, f.Phone, f.FirstName, f.LastName,
	}, "|"))
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// PutContact stores a contact and returns the store-assigned ID.
func (c *Client) PutContact(ctx context.Context, contact Contact) (string, error) {
	body, err := json.Marshal(contact)
	if err != nil {
		return "", fmt.Errorf("marshal contact: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/contacts", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &RetryableError{Err: fmt.Errorf("put contact: %w", err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", statusError("put contact", resp)
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode put response: %w", err)
	}
	return result.ID, nil
}

// FindByFingerprint looks up a contact by fingerprint. Returns nil with
// no error when the store has no match.
func (c *Client) FindByFingerprint(ctx context.Context, fingerprint string) (*Contact, error) {
	u := c.baseURL + "/contacts?fingerprint=" + url.QueryEscape(fingerprint)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("find contact: %w", err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("find contact", resp)
	}

	var result struct {
		Contacts []Contact `json:"contacts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode find response: %w", err)
	}
	if len(result.Contacts) == 0 {
		return nil, nil
	}
	return &result.Contacts[0], nil
}

// ListContacts pages through stored contacts.
func (c *Client) ListContacts(ctx context.Context, limit, offset int) ([]Contact, error) {
	u := c.baseURL + "/contacts"
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	if offset > 0 {
		q.Set("offset", fmt.Sprintf("%d", offset))
	}
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("list contacts: %w", err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("list contacts", resp)
	}

	var result struct {
		Contacts []Contact `json:"contacts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode list response: %w", err)
	}
	return result.Contacts, nil
}

// DeleteContact removes a contact by ID.
func (c *Client) DeleteContact(ctx context.Context, id string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/contacts/"+url.PathEscape(id), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &RetryableError{Err: fmt.Errorf("delete contact: %w", err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return statusError("delete contact", resp)
	}
	return nil
}

// Close releases any resources (currently a no-op).
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// statusError turns a non-success response into an error, marking rate
// limits and server errors as retryable.
func statusError(op string, resp *http.Response) error {
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	err := fmt.Errorf("%s: status %d: %s", op, resp.StatusCode, string(respBody))
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return &RetryableError{Err: err}
	}
	return err
}

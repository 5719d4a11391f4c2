// Package walletrpc connects the booking service to an Ethereum JSON-RPC wallet endpoint.
package walletrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

const (
	jsonRPCVersion          = "2.0"
	methodRequestAccounts   = "eth_requestAccounts"
	methodAccounts          = "eth_accounts"
	contentTypeJSON         = "application/json"
	defaultClientTimeout    = 10 * time.Second
	errorPrefixWalletClient = "walletrpc"
)

var (
	// ErrRPCFailure reports a JSON-RPC level error returned by the wallet endpoint.
	ErrRPCFailure = errors.New("wallet rpc failure")
	// ErrUnexpectedStatus reports a non-2xx HTTP response.
	ErrUnexpectedStatus = errors.New("wallet rpc unexpected status")
)

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// Client implements booking.Wallet against a JSON-RPC endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	nextID     atomic.Int64
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(client *Client) {
		if httpClient != nil {
			client.httpClient = httpClient
		}
	}
}

// New returns a client for endpoint, or nil when endpoint is blank.
func New(endpoint string, options ...Option) *Client {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return nil
	}
	client := &Client{
		endpoint:   trimmed,
		httpClient: &http.Client{Timeout: defaultClientTimeout},
	}
	for _, option := range options {
		option(client)
	}
	return client
}

// RequestAccounts asks the wallet to authorize access, then reads the authorized accounts.
func (client *Client) RequestAccounts(ctx context.Context) ([]string, error) {
	if _, err := client.call(ctx, methodRequestAccounts); err != nil {
		return nil, err
	}
	result, err := client.call(ctx, methodAccounts)
	if err != nil {
		return nil, err
	}
	var accounts []string
	if err := json.Unmarshal(result, &accounts); err != nil {
		return nil, fmt.Errorf("%s: decode accounts: %w", errorPrefixWalletClient, err)
	}
	return accounts, nil
}

func (client *Client) call(ctx context.Context, method string) (json.RawMessage, error) {
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: jsonRPCVersion,
		ID:      client.nextID.Add(1),
		Method:  method,
		Params:  []any{},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: encode %s: %w", errorPrefixWalletClient, method, err)
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, client.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%s: build %s: %w", errorPrefixWalletClient, method, err)
	}
	request.Header.Set("Content-Type", contentTypeJSON)
	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", errorPrefixWalletClient, method, err)
	}
	defer response.Body.Close()
	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, method, response.StatusCode)
	}
	var decoded rpcResponse
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%s: decode %s: %w", errorPrefixWalletClient, method, err)
	}
	if decoded.Error != nil {
		return nil, fmt.Errorf("%w: %s: %d %s", ErrRPCFailure, method, decoded.Error.Code, decoded.Error.Message)
	}
	return decoded.Result, nil
}

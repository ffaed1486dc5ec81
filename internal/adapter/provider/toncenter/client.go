package toncenter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"payments-worker/internal/adapter/provider"
	"payments-worker/internal/core/ports"
)

type transactionsResponse struct {
	OK     bool          `json:"ok"`
	Result []transaction `json:"result"`
	Error  string        `json:"error"`
}

type transaction struct {
	Utime         int64 `json:"utime"`
	TransactionID struct {
		Hash string `json:"hash"`
		Lt   string `json:"lt"`
	} `json:"transaction_id"`
	InMsg *struct {
		Source string `json:"source"`
		Value  string `json:"value"`
	} `json:"in_msg"`
}

// Client implements ports.ChainIndexer against the toncenter v2 HTTP API.
type Client struct {
	baseURL   string
	apiKey    string
	requester *provider.Requester
}

// NewClient creates a toncenter client. baseURL is e.g. https://toncenter.com/api/v2.
func NewClient(baseURL, apiKey string, requester *provider.Requester) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		requester: requester,
	}
}

// InboundTransfers returns the recent transactions of address that carry an
// inbound message with a sender. Outbound-only and external messages are dropped.
func (c *Client) InboundTransfers(ctx context.Context, address string, limit int) ([]ports.InboundTransfer, error) {
	params := url.Values{}
	params.Set("address", address)
	params.Set("limit", strconv.Itoa(limit))
	fullURL := c.baseURL + "/getTransactions?" + params.Encode()

	var resp transactionsResponse
	err := c.requester.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("X-API-Key", c.apiKey)
		}
		return req, nil
	}, &resp, true)
	if err != nil {
		return nil, fmt.Errorf("toncenter getTransactions: %w", err)
	}
	if !resp.OK {
		return nil, fmt.Errorf("toncenter getTransactions: %w: %s", provider.ErrUnavailable, resp.Error)
	}

	transfers := make([]ports.InboundTransfer, 0, len(resp.Result))
	for _, tx := range resp.Result {
		if tx.InMsg == nil || tx.InMsg.Source == "" {
			continue
		}
		transfers = append(transfers, ports.InboundTransfer{
			Hash:   tx.TransactionID.Hash,
			Source: tx.InMsg.Source,
			Value:  tx.InMsg.Value,
			Utime:  tx.Utime,
		})
	}
	return transfers, nil
}

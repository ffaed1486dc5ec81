package cryptopay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"payments-worker/internal/adapter/provider"
	"payments-worker/internal/core/ports"
)

// Client implements ports.InvoiceProvider against the Crypto Pay API.
type Client struct {
	baseURL   string
	token     string
	requester *provider.Requester
}

// NewClient creates a Crypto Pay client. baseURL is e.g. https://pay.crypt.bot.
func NewClient(baseURL, token string, requester *provider.Requester) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		token:     token,
		requester: requester,
	}
}

type apiError struct {
	Code int    `json:"code"`
	Name string `json:"name"`
}

type apiResponse[T any] struct {
	OK     bool      `json:"ok"`
	Result T         `json:"result"`
	Error  *apiError `json:"error"`
}

type invoice struct {
	InvoiceID         int64  `json:"invoice_id"`
	Status            string `json:"status"`
	BotInvoiceURL     string `json:"bot_invoice_url"`
	MiniAppInvoiceURL string `json:"mini_app_invoice_url"`
	WebAppInvoiceURL  string `json:"web_app_invoice_url"`
}

func (i invoice) toPort() ports.Invoice {
	payURL := i.MiniAppInvoiceURL
	if payURL == "" {
		payURL = i.BotInvoiceURL
	}
	if payURL == "" {
		payURL = i.WebAppInvoiceURL
	}
	return ports.Invoice{InvoiceID: i.InvoiceID, Status: i.Status, PayURL: payURL}
}

type createInvoiceRequest struct {
	Asset       string `json:"asset"`
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
	Payload     string `json:"payload,omitempty"`
}

type getInvoicesRequest struct {
	InvoiceIDs string `json:"invoice_ids"`
}

// CreateInvoice opens an invoice. It is never retried, a lost response
// would otherwise leave a duplicate invoice at the provider.
func (c *Client) CreateInvoice(ctx context.Context, req ports.CreateInvoiceRequest) (*ports.Invoice, error) {
	var resp apiResponse[invoice]
	err := c.call(ctx, "createInvoice", createInvoiceRequest{
		Asset:       req.Asset,
		Amount:      req.Amount,
		Description: req.Description,
		Payload:     req.Payload,
	}, &resp, false)
	if err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, fmt.Errorf("cryptopay createInvoice: %s", errorName(resp.Error))
	}
	inv := resp.Result.toPort()
	return &inv, nil
}

// GetInvoices fetches the current state of the given invoices in one call.
func (c *Client) GetInvoices(ctx context.Context, invoiceIDs []int64) ([]ports.Invoice, error) {
	if len(invoiceIDs) == 0 {
		return nil, nil
	}

	ids := make([]string, len(invoiceIDs))
	for i, id := range invoiceIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}

	var resp apiResponse[struct {
		Items []invoice `json:"items"`
	}]
	if err := c.call(ctx, "getInvoices", getInvoicesRequest{InvoiceIDs: strings.Join(ids, ",")}, &resp, true); err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, fmt.Errorf("cryptopay getInvoices: %w: %s", provider.ErrUnavailable, errorName(resp.Error))
	}

	invoices := make([]ports.Invoice, 0, len(resp.Result.Items))
	for _, item := range resp.Result.Items {
		invoices = append(invoices, item.toPort())
	}
	return invoices, nil
}

func (c *Client) call(ctx context.Context, method string, payload any, out any, retry bool) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("cryptopay %s: encode: %w", method, err)
	}
	fullURL := c.baseURL + "/api/" + method

	err = c.requester.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Crypto-Pay-API-Token", c.token)
		return req, nil
	}, out, retry)
	if err != nil {
		return fmt.Errorf("cryptopay %s: %w", method, err)
	}
	return nil
}

func errorName(e *apiError) string {
	if e == nil {
		return "unknown error"
	}
	return e.Name
}

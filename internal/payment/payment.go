package payment

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Gateway abstracts the external payment provider so the order workflow
// can be tested against a fake.
type Gateway interface {
	// CreatePayment initiates a payment keyed by reference (the order id)
	// and the buyer's email. It returns the browser redirect target and
	// the poll URL the provider assigns to the transaction.
	CreatePayment(ctx context.Context, reference, email, description string, amount float64) (*InitiateResponse, error)

	// VerifyCallback checks the integrity hash on a raw status callback
	// body before any of its fields are trusted.
	VerifyCallback(raw []byte) error
}

type InitiateResponse struct {
	RedirectURL string
	PollURL     string
}

// Transaction statuses reported by Paynow.
const (
	StatusPaid             = "Paid"
	StatusAwaitingDelivery = "Awaiting Delivery"
	StatusDelivered        = "Delivered"
	StatusCancelled        = "Cancelled"
	StatusFailed           = "Failed"
)

// IsSuccessStatus reports whether a callback status means the buyer paid.
func IsSuccessStatus(status string) bool {
	switch status {
	case StatusPaid, StatusAwaitingDelivery, StatusDelivered:
		return true
	}
	return false
}

// CallbackPayload is the status update Paynow posts to the result URL.
type CallbackPayload struct {
	Reference       string
	PaynowReference string
	Amount          float64
	Status          string
	PollURL         string
	Hash            string
}

func ParseCallback(raw []byte) (*CallbackPayload, error) {
	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return nil, fmt.Errorf("malformed callback body: %w", err)
	}

	p := &CallbackPayload{
		Reference:       values.Get("reference"),
		PaynowReference: values.Get("paynowreference"),
		Status:          values.Get("status"),
		PollURL:         values.Get("pollurl"),
		Hash:            values.Get("hash"),
	}

	if amount := values.Get("amount"); amount != "" {
		p.Amount, err = strconv.ParseFloat(amount, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed callback amount: %w", err)
		}
	}

	if p.Reference == "" || p.Status == "" {
		return nil, fmt.Errorf("callback missing reference or status")
	}

	return p, nil
}

type formPair struct {
	key   string
	value string
}

// parseOrderedForm decodes an url-encoded body keeping field order, which
// the integrity hash depends on.
func parseOrderedForm(raw []byte) ([]formPair, error) {
	var pairs []formPair
	for _, field := range strings.Split(string(raw), "&") {
		if field == "" {
			continue
		}
		key, value, _ := strings.Cut(field, "=")

		decodedKey, err := url.QueryUnescape(key)
		if err != nil {
			return nil, err
		}
		decodedValue, err := url.QueryUnescape(value)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, formPair{key: decodedKey, value: decodedValue})
	}
	return pairs, nil
}

package client

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// NewSheetsClient builds a Google Sheets API client from a service account key file.
// Calls are bounded by the context deadline set at the store boundary.
func NewSheetsClient(ctx context.Context, credentialsFile string) (*sheets.Service, error) {
	if credentialsFile == "" {
		return nil, fmt.Errorf("sheets client: credentials file is not configured")
	}

	srv, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
		option.WithUserAgent("registration-payment-relay"),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return srv, nil
}

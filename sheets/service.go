package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

const valueInputOption = "USER_ENTERED"

type service struct {
	values *gsheets.SpreadsheetsValuesService
}

// NewService authenticates with the credentials from provider and returns
// a ValuesAPI backed by the Sheets v4 API.
func NewService(ctx context.Context, provider CredentialProvider) (ValuesAPI, error) {
	creds, err := provider.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	srv, err := gsheets.NewService(ctx,
		option.WithCredentialsJSON(creds),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &service{values: srv.Spreadsheets.Values}, nil
}

func (s *service) Append(ctx context.Context, spreadsheetID, writeRange string, rows [][]interface{}) error {
	_, err := s.values.Append(spreadsheetID, writeRange, &gsheets.ValueRange{Values: rows}).
		ValueInputOption(valueInputOption).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

// Update overwrites from the top-left of the range. Rows past the batch length
// are left as they were.
func (s *service) Update(ctx context.Context, spreadsheetID, writeRange string, rows [][]interface{}) error {
	_, err := s.values.Update(spreadsheetID, writeRange, &gsheets.ValueRange{Values: rows}).
		ValueInputOption(valueInputOption).
		Context(ctx).
		Do()
	return err
}

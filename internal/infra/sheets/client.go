package sheets

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"teacher_hours_dashboard/internal/domain/lesson"
)

// Client reads lesson rows from one worksheet of a Google spreadsheet and
// parses them into lesson records. It implements lesson.Source.
type Client struct {
	svc           *gsheets.Service
	spreadsheetID string
	worksheetName string
	logger        *logrus.Logger
}

// NewClient builds a read-only Sheets client from service-account credentials.
func NewClient(ctx context.Context, credentialsJSON []byte, spreadsheetID, worksheetName string, logger *logrus.Logger) (*Client, error) {
	svc, err := gsheets.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(gsheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		worksheetName: worksheetName,
		logger:        logger,
	}, nil
}

// Fetch reads the whole worksheet and returns one record per data row.
// Header problems are hard errors; row-level problems are not.
func (c *Client) Fetch(ctx context.Context) ([]lesson.Record, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.worksheetName).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %q: %w", c.worksheetName, err)
	}

	records, err := RowsToRecords(resp.Values)
	if err != nil {
		return nil, err
	}
	c.logger.WithFields(logrus.Fields{
		"worksheet": c.worksheetName,
		"rows":      len(records),
	}).Debug("worksheet loaded")
	return records, nil
}

package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"finboard/internal/log"
)

// SheetsConfig selects the target spreadsheet and the service account used
// to write to it.
type SheetsConfig struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsFile string
	CredentialsJSON string
}

// SheetsAppender appends export rows below the existing data of one sheet.
type SheetsAppender struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *log.Logger
}

// NewSheetsAppender authenticates with the service account in cfg.
func NewSheetsAppender(ctx context.Context, cfg SheetsConfig, logger *log.Logger) (*SheetsAppender, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	var credentials []byte
	switch {
	case cfg.CredentialsJSON != "":
		credentials = []byte(cfg.CredentialsJSON)
	case cfg.CredentialsFile != "":
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentials = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return newSheetsAppender(svc, cfg.SpreadsheetID, cfg.SheetName, logger), nil
}

func newSheetsAppender(svc *gsheet.Service, spreadsheetID, sheetName string, logger *log.Logger) *SheetsAppender {
	if sheetName == "" {
		sheetName = "Transactions"
	}
	return &SheetsAppender{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		logger:        logger.WithComponent(log.ComponentExport),
	}
}

// AppendRow writes row after the last filled line of columns A:E and returns
// the updated range, e.g. "Transactions!A7:E7".
func (a *SheetsAppender) AppendRow(ctx context.Context, row Row) (string, error) {
	if a.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:E", a.sheetName)
	vr := &gsheet.ValueRange{Values: [][]any{row.values()}}

	resp, err := a.svc.Spreadsheets.Values.Append(a.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("append row to %s: %w", a.sheetName, err)
	}

	ref := rng
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}
	a.logger.InfoContext(ctx, "Row appended to sheet", log.FieldExportRef, ref, log.FieldOperation, log.OpExport)
	return ref, nil
}

// Package sheets reads spreadsheet tabs. Two readers exist: the published CSV
// export (the default, no credentials needed) and the Sheets API for
// spreadsheets that are not published. Both hand back raw rows including the
// header row; mapping rows to records happens in the records service.
package sheets

import (
	"context"
	"errors"
)

// Tab names of the spreadsheet database.
const (
	TabOwners        = "Owners"
	TabCattle        = "RFID_Database"
	TabLogs          = "Logs"
	TabMilkRecords   = "MilkRecords"
	TabHealthRecords = "HealthRecords"
	TabTreatments    = "Treatments"
)

// ErrSheetUnavailable is returned when a tab cannot be read.
var ErrSheetUnavailable = errors.New("sheet not accessible")

// TabReader reads every row of a named tab, header included.
type TabReader interface {
	ReadTab(ctx context.Context, tab string) ([][]string, error)
}

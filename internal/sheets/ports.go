package sheets

import (
	"context"

	"finboard/internal/core"
)

// Ports for outbound adapters.
type (
	// TransactionExporter appends transactions to an external spreadsheet.
	// Records whose ID is already present are skipped, so exporting the same
	// list twice appends nothing the second time.
	TransactionExporter interface {
		Export(ctx context.Context, list []core.Transaction) (ExportResult, error)
	}
)

// ExportResult describes one export.
type ExportResult struct {
	Range    string // cells written, empty when nothing was appended
	Appended int
	Skipped  int
}

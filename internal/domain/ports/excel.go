package ports

import (
	"context"

	"github.com/k-shtanenko/temperature-archive/internal/domain/entities"
)

type PivotExporter interface {
	ExportPivotTable(ctx context.Context, rows []entities.PivotRow) ([]byte, error)
	ContentType() string
}

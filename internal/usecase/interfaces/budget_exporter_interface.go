package interfaces

import "catering_admin/internal/domain/entities"

// IBudgetExporter renders a budget into a downloadable document.
type IBudgetExporter interface {
	Export(b entities.Budget) ([]byte, error)
	ContentType() string
	FileExtension() string
}

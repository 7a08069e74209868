package export

import (
	"bytes"
	"testing"

	"catering_admin/internal/domain/budget"
	"catering_admin/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBudgetXLSXExporter_Export(t *testing.T) {
	b := budget.Recompute(entities.Budget{
		ID:         "b-1",
		ClientInfo: entities.ClientInfo{Name: "Martin", MenuType: entities.MenuTypeStandard},
		Menu:       entities.MenuSection{PricePerPerson: 25, TotalPersons: 80, TVAPct: 10},
		Material: &entities.MaterialSection{
			TVAPct: 20,
			Items: []entities.MaterialItem{
				{Name: "Chaises", Quantity: 50, PricePerUnit: 1.5},
				{Name: "Serveurs", Quantity: 2, PricePerUnit: 100},
			},
		},
		Totals: entities.BudgetTotals{Discount: &entities.Discount{Reason: "fidélité", Percentage: 5}},
		Status: entities.BudgetStatusApproved,
	})

	exporter := NewBudgetXLSXExporter()
	data, err := exporter.Export(b)
	require.NoError(t, err)
	assert.Equal(t, "xlsx", exporter.FileExtension())

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)

	var flat []string
	for _, row := range rows {
		flat = append(flat, row...)
	}
	assert.Contains(t, flat, "Martin")
	assert.Contains(t, flat, "Chaises")
	assert.NotContains(t, flat, "Serveurs", "staff lines are not exported as material")
	assert.Contains(t, flat, "Remise (information)")
	assert.Contains(t, flat, "2290", "aggregate TTC: 2200 menu + 90 material")
}

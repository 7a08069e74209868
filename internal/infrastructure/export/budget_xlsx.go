package export

import (
	"fmt"

	"catering_admin/internal/domain/budget"
	"catering_admin/internal/domain/entities"
	"catering_admin/internal/usecase/interfaces"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Devis"

var lineHeadings = []any{"Section", "Désignation", "Quantité", "Prix unitaire", "Total HT", "TVA %", "TVA", "Total TTC"}

// BudgetXLSXExporter renders a budget as a one-sheet spreadsheet: client
// block, one row per priced line, then the totals.
type BudgetXLSXExporter struct{}

var _ interfaces.IBudgetExporter = BudgetXLSXExporter{}

func NewBudgetXLSXExporter() BudgetXLSXExporter { return BudgetXLSXExporter{} }

func (BudgetXLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (BudgetXLSXExporter) FileExtension() string { return "xlsx" }

func (BudgetXLSXExporter) Export(b entities.Budget) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	rows := [][]any{
		{"Devis", b.ID},
		{"Client", b.ClientInfo.Name},
		{"Email", b.ClientInfo.Email},
		{"Téléphone", b.ClientInfo.Phone},
		{"Événement", b.ClientInfo.EventType, b.ClientInfo.EventDate},
		{"Invités", b.ClientInfo.GuestCount},
		{"Adresse", b.ClientInfo.Address},
		{"Statut", string(b.Status)},
		{},
		lineHeadings,
	}

	m := b.Menu
	rows = append(rows, []any{"Menu", string(b.ClientInfo.MenuType), m.TotalPersons, m.PricePerPerson, m.TotalHT, m.TVAPct, m.TVA, m.TotalTTC})
	if s := b.Service; s != nil {
		rows = append(rows, []any{"Service", fmt.Sprintf("%d serveurs x %d h", s.Mozos, s.Hours), s.Mozos * s.Hours, s.PricePerHour, s.TotalHT, s.TVAPct, s.TVA, s.TotalTTC})
	}
	if mat := b.Material; mat != nil {
		for _, it := range budget.VisibleMaterialItems(b) {
			rows = append(rows, []any{"Matériel", it.Name, it.Quantity, it.PricePerUnit, it.Total, mat.TVAPct})
		}
		rows = append(rows, []any{"Matériel", "Sous-total", nil, nil, mat.TotalHT, mat.TVAPct, mat.TVA, mat.TotalTTC})
	}
	if d := b.Deplacement; d != nil {
		rows = append(rows, []any{"Déplacement", "km", d.Distance, d.PricePerKm, d.TotalHT, d.TVAPct, d.TVA, d.TotalTTC})
	}

	rows = append(rows,
		[]any{},
		[]any{"Total", nil, nil, nil, b.Totals.TotalHT, nil, b.Totals.TotalTVA, b.Totals.TotalTTC},
	)
	if d := b.Totals.Discount; d != nil {
		rows = append(rows, []any{"Remise (information)", d.Reason, nil, nil, nil, d.Percentage, nil, d.Amount})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

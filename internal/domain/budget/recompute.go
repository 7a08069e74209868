package budget

import (
	"strings"

	"catering_admin/internal/domain/entities"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Recompute derives every total of b from its leaf inputs and returns the
// result. b itself is not modified. Calling it on its own output is a no-op.
func Recompute(b entities.Budget) entities.Budget {
	out := b.Clone()

	totalHT := decimal.Zero
	totalTVA := decimal.Zero
	add := func(ht, tva decimal.Decimal) {
		totalHT = totalHT.Add(ht)
		totalTVA = totalTVA.Add(tva)
	}

	m := &out.Menu
	ht := dec(m.PricePerPerson).Mul(decimal.NewFromInt(int64(m.TotalPersons)))
	tva := taxOf(ht, dec(m.TVAPct))
	m.TotalHT, m.TVA, m.TotalTTC = money(ht), money(tva), money(ht.Add(tva))
	add(ht, tva)

	if s := out.Service; s != nil {
		s.PricePerHour = ServicePricePerHour
		s.TVAPct = ServiceTVAPct
		ht := decimal.NewFromInt(int64(s.Mozos)).
			Mul(decimal.NewFromInt(int64(s.Hours))).
			Mul(decimal.NewFromInt(ServicePricePerHour))
		tva := taxOf(ht, decimal.NewFromInt(ServiceTVAPct))
		s.TotalHT, s.TVA, s.TotalTTC = money(ht), money(tva), money(ht.Add(tva))
		add(ht, tva)
	}

	if mat := out.Material; mat != nil {
		ht := decimal.Zero
		visible := 0
		for i := range mat.Items {
			it := &mat.Items[i]
			lineTotal := dec(it.Quantity).Mul(dec(it.PricePerUnit))
			it.Total = money(lineTotal)
			if IsStaffItem(it.Name) {
				continue
			}
			visible++
			ht = ht.Add(lineTotal)
		}
		if visible == 0 {
			out.Material = nil
		} else {
			tva := taxOf(ht, dec(mat.TVAPct))
			mat.TotalHT, mat.TVA, mat.TotalTTC = money(ht), money(tva), money(ht.Add(tva))
			add(ht, tva)
		}
	}

	if d := out.Deplacement; d != nil {
		ht := dec(d.Distance).Mul(dec(d.PricePerKm))
		tva := taxOf(ht, dec(d.TVAPct))
		d.TotalHT, d.TVA, d.TotalTTC = money(ht), money(tva), money(ht.Add(tva))
		add(ht, tva)
	}

	out.Totals.TotalHT = money(totalHT)
	out.Totals.TotalTVA = money(totalTVA)
	out.Totals.TotalTTC = money(totalHT.Add(totalTVA))
	return out
}

// IsStaffItem reports whether a material line names service staff.
func IsStaffItem(name string) bool {
	lower := strings.ToLower(name)
	for _, token := range staffTokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

// VisibleMaterialItems is the editable view of the material section: staff
// lines are hidden. Positions in the returned slice are the indexes accepted
// by the material item operations.
func VisibleMaterialItems(b entities.Budget) []entities.MaterialItem {
	if b.Material == nil {
		return nil
	}
	items := make([]entities.MaterialItem, 0, len(b.Material.Items))
	for _, it := range b.Material.Items {
		if !IsStaffItem(it.Name) {
			items = append(items, it)
		}
	}
	return items
}

func taxOf(ht, pct decimal.Decimal) decimal.Decimal {
	return ht.Mul(pct).Div(hundred)
}

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func money(d decimal.Decimal) float64 { return d.InexactFloat64() }

package budget

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"catering_admin/internal/domain/entities"
)

// MaterialItemPatch carries the fields of a material item to change. Nil
// fields are left alone. Total is derived and cannot be patched.
type MaterialItemPatch struct {
	Name         *string
	Quantity     *float64
	PricePerUnit *float64
}

// UpdateField writes value at a dotted path such as "menu.pricePerPerson" and
// returns the recomputed budget. b is left untouched.
//
// Only leaf inputs are meaningful targets. Writes to derived fields (totalHT,
// tva, totalTTC) or pinned ones (service.pricePerHour, service.tvaPct) are
// accepted and then overwritten by the recomputation. An optional section
// must be added with AddSection before its fields can be set; the discount
// record under totals is created on first write.
func UpdateField(b entities.Budget, path string, value any) (entities.Budget, error) {
	segs := strings.Split(path, ".")
	if len(segs) < 2 || slices.Contains(segs, "") {
		return entities.Budget{}, invalid(path, "expected <section>.<field>")
	}

	out := b.Clone()
	var err error
	switch segs[0] {
	case string(SectionMenu):
		err = setMenuField(&out.Menu, path, segs[1:], value)
	case string(SectionService):
		if out.Service == nil {
			return entities.Budget{}, absentSection(path, SectionService)
		}
		err = setServiceField(out.Service, path, segs[1:], value)
	case string(SectionMaterial):
		if out.Material == nil {
			return entities.Budget{}, absentSection(path, SectionMaterial)
		}
		err = setMaterialField(out.Material, path, segs[1:], value)
	case string(SectionDeplacement):
		if out.Deplacement == nil {
			return entities.Budget{}, absentSection(path, SectionDeplacement)
		}
		err = setDeplacementField(out.Deplacement, path, segs[1:], value)
	case "totals":
		err = setTotalsField(&out.Totals, path, segs[1:], value)
	case "clientInfo":
		err = invalid(path, "client information is not edited through budget fields")
	default:
		err = invalid(segs[0], "unknown section")
	}
	if err != nil {
		return entities.Budget{}, err
	}
	return Recompute(out), nil
}

// AddSection adds an optional section, seeded with canonical defaults
// overridden by the given field values, and returns the recomputed budget.
//
// Canonical defaults: service {mozos: 1, hours: 1}, deplacement {tvaPct: 20},
// material {tvaPct: 20} with one blank item unless "items" is supplied.
func AddSection(b entities.Budget, section Section, defaults map[string]any) (entities.Budget, error) {
	out := b.Clone()
	name := string(section)

	// Apply keys in a stable order so the reported field is deterministic.
	keys := slices.Sorted(maps.Keys(defaults))

	switch section {
	case SectionMenu:
		return entities.Budget{}, invalid(name, "menu is mandatory and always present")
	case SectionService:
		if out.Service != nil {
			return entities.Budget{}, invalid(name, "section is already present")
		}
		s := &entities.ServiceSection{Mozos: DefaultServiceMozos, Hours: DefaultServiceHours}
		for _, k := range keys {
			if err := setServiceField(s, name+"."+k, []string{k}, defaults[k]); err != nil {
				return entities.Budget{}, err
			}
		}
		out.Service = s
	case SectionDeplacement:
		if out.Deplacement != nil {
			return entities.Budget{}, invalid(name, "section is already present")
		}
		d := &entities.DeplacementSection{TVAPct: DefaultDeplacementTVA}
		for _, k := range keys {
			if err := setDeplacementField(d, name+"."+k, []string{k}, defaults[k]); err != nil {
				return entities.Budget{}, err
			}
		}
		out.Deplacement = d
	case SectionMaterial:
		if out.Material != nil {
			return entities.Budget{}, invalid(name, "section is already present")
		}
		m := &entities.MaterialSection{TVAPct: DefaultMaterialTVAPct}
		for _, k := range keys {
			if k == "items" {
				items, err := materialItemsFrom(defaults[k])
				if err != nil {
					return entities.Budget{}, err
				}
				m.Items = items
				continue
			}
			if err := setMaterialField(m, name+"."+k, []string{k}, defaults[k]); err != nil {
				return entities.Budget{}, err
			}
		}
		if len(m.Items) == 0 {
			m.Items = []entities.MaterialItem{{Name: DefaultMaterialItemName, Quantity: 1}}
		}
		out.Material = m
	default:
		return entities.Budget{}, invalid(name, "unknown section")
	}
	return Recompute(out), nil
}

// RemoveSection drops an optional section. Removing a section that is not
// present is a no-op; the menu cannot be removed.
func RemoveSection(b entities.Budget, section Section) (entities.Budget, error) {
	out := b.Clone()
	switch section {
	case SectionMenu:
		return entities.Budget{}, invalid(string(section), "menu is mandatory and cannot be removed")
	case SectionService:
		out.Service = nil
	case SectionMaterial:
		out.Material = nil
	case SectionDeplacement:
		out.Deplacement = nil
	default:
		return entities.Budget{}, invalid(string(section), "unknown section")
	}
	return Recompute(out), nil
}

// AddMaterialItem appends an item to the material section. Its total is
// derived; any value supplied for it is ignored.
func AddMaterialItem(b entities.Budget, item entities.MaterialItem) (entities.Budget, error) {
	if b.Material == nil {
		return entities.Budget{}, &NotFoundError{Resource: "section", Key: string(SectionMaterial)}
	}
	field := fmt.Sprintf("material.items.%d", len(b.Material.Items))
	if err := validateItem(field, item); err != nil {
		return entities.Budget{}, err
	}
	out := b.Clone()
	item.Total = 0
	out.Material.Items = append(out.Material.Items, item)
	return Recompute(out), nil
}

// UpdateMaterialItem patches the item at index in the visible item list.
func UpdateMaterialItem(b entities.Budget, index int, patch MaterialItemPatch) (entities.Budget, error) {
	pos, err := materialPosition(b, index)
	if err != nil {
		return entities.Budget{}, err
	}
	field := fmt.Sprintf("material.items.%d", index)
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return entities.Budget{}, invalid(field+".name", "must not be empty")
	}
	if patch.Quantity != nil {
		if err := checkValue(field+".quantity", kindAmount, *patch.Quantity); err != nil {
			return entities.Budget{}, err
		}
	}
	if patch.PricePerUnit != nil {
		if err := checkValue(field+".pricePerUnit", kindAmount, *patch.PricePerUnit); err != nil {
			return entities.Budget{}, err
		}
	}

	out := b.Clone()
	it := &out.Material.Items[pos]
	if patch.Name != nil {
		it.Name = *patch.Name
	}
	if patch.Quantity != nil {
		it.Quantity = *patch.Quantity
	}
	if patch.PricePerUnit != nil {
		it.PricePerUnit = *patch.PricePerUnit
	}
	return Recompute(out), nil
}

// RemoveMaterialItem deletes the item at index in the visible item list.
// Removing the last visible item removes the whole material section,
// hidden staff lines included.
func RemoveMaterialItem(b entities.Budget, index int) (entities.Budget, error) {
	pos, err := materialPosition(b, index)
	if err != nil {
		return entities.Budget{}, err
	}
	out := b.Clone()
	out.Material.Items = slices.Delete(out.Material.Items, pos, pos+1)
	if len(VisibleMaterialItems(out)) == 0 {
		out.Material = nil
	}
	return Recompute(out), nil
}

// materialPosition translates an index in the visible list into a position in
// the underlying item slice. It is resolved on every call so interleaved
// staff lines never skew it.
func materialPosition(b entities.Budget, index int) (int, error) {
	if index < 0 {
		return 0, invalid(fmt.Sprintf("material.items.%d", index), "index must be >= 0")
	}
	if b.Material == nil {
		return 0, &NotFoundError{Resource: "section", Key: string(SectionMaterial)}
	}
	seen := 0
	for pos, it := range b.Material.Items {
		if IsStaffItem(it.Name) {
			continue
		}
		if seen == index {
			return pos, nil
		}
		seen++
	}
	return 0, &NotFoundError{Resource: "material item", Key: strconv.Itoa(index)}
}

func absentSection(path string, s Section) error {
	return invalid(path, "section %q is not present; add it first", s)
}

func leaf(path string, rest []string) (string, error) {
	if len(rest) != 1 {
		return "", invalid(path, "unknown field")
	}
	return rest[0], nil
}

func setMenuField(m *entities.MenuSection, path string, rest []string, v any) error {
	key, err := leaf(path, rest)
	if err != nil {
		return err
	}
	switch key {
	case "pricePerPerson":
		m.PricePerPerson, err = asFloat(path, kindAmount, v)
	case "totalPersons":
		m.TotalPersons, err = asInt(path, v)
	case "tvaPct":
		m.TVAPct, err = asFloat(path, kindPct, v)
	case "totalHT":
		m.TotalHT, err = asFloat(path, kindNumber, v)
	case "tva":
		m.TVA, err = asFloat(path, kindNumber, v)
	case "totalTTC":
		m.TotalTTC, err = asFloat(path, kindNumber, v)
	default:
		err = invalid(path, "unknown field")
	}
	return err
}

func setServiceField(s *entities.ServiceSection, path string, rest []string, v any) error {
	key, err := leaf(path, rest)
	if err != nil {
		return err
	}
	switch key {
	case "mozos":
		s.Mozos, err = asInt(path, v)
	case "hours":
		s.Hours, err = asInt(path, v)
	case "pricePerHour":
		s.PricePerHour, err = asFloat(path, kindNumber, v)
	case "tvaPct":
		s.TVAPct, err = asFloat(path, kindNumber, v)
	case "totalHT":
		s.TotalHT, err = asFloat(path, kindNumber, v)
	case "tva":
		s.TVA, err = asFloat(path, kindNumber, v)
	case "totalTTC":
		s.TotalTTC, err = asFloat(path, kindNumber, v)
	default:
		err = invalid(path, "unknown field")
	}
	return err
}

func setMaterialField(m *entities.MaterialSection, path string, rest []string, v any) error {
	if rest[0] == "items" {
		return invalid(path, "material items are edited with the item operations")
	}
	key, err := leaf(path, rest)
	if err != nil {
		return err
	}
	switch key {
	case "tvaPct":
		m.TVAPct, err = asFloat(path, kindPct, v)
	case "totalHT":
		m.TotalHT, err = asFloat(path, kindNumber, v)
	case "tva":
		m.TVA, err = asFloat(path, kindNumber, v)
	case "totalTTC":
		m.TotalTTC, err = asFloat(path, kindNumber, v)
	default:
		err = invalid(path, "unknown field")
	}
	return err
}

func setDeplacementField(d *entities.DeplacementSection, path string, rest []string, v any) error {
	key, err := leaf(path, rest)
	if err != nil {
		return err
	}
	switch key {
	case "distance":
		d.Distance, err = asFloat(path, kindAmount, v)
	case "pricePerKm":
		d.PricePerKm, err = asFloat(path, kindAmount, v)
	case "tvaPct":
		d.TVAPct, err = asFloat(path, kindPct, v)
	case "totalHT":
		d.TotalHT, err = asFloat(path, kindNumber, v)
	case "tva":
		d.TVA, err = asFloat(path, kindNumber, v)
	case "totalTTC":
		d.TotalTTC, err = asFloat(path, kindNumber, v)
	default:
		err = invalid(path, "unknown field")
	}
	return err
}

func setTotalsField(t *entities.BudgetTotals, path string, rest []string, v any) error {
	if rest[0] == "discount" {
		key, err := leaf(path, rest[1:])
		if err != nil {
			return err
		}
		d := t.Discount
		if d == nil {
			d = &entities.Discount{}
		}
		switch key {
		case "reason":
			d.Reason, err = asString(path, v)
		case "percentage":
			d.Percentage, err = asFloat(path, kindPct, v)
		case "amount":
			d.Amount, err = asFloat(path, kindAmount, v)
		default:
			err = invalid(path, "unknown field")
		}
		if err != nil {
			return err
		}
		t.Discount = d
		return nil
	}

	key, err := leaf(path, rest)
	if err != nil {
		return err
	}
	switch key {
	case "totalHT":
		t.TotalHT, err = asFloat(path, kindNumber, v)
	case "totalTVA":
		t.TotalTVA, err = asFloat(path, kindNumber, v)
	case "totalTTC":
		t.TotalTTC, err = asFloat(path, kindNumber, v)
	default:
		err = invalid(path, "unknown field")
	}
	return err
}

func validateItem(field string, it entities.MaterialItem) error {
	if strings.TrimSpace(it.Name) == "" {
		return invalid(field+".name", "must not be empty")
	}
	if err := checkValue(field+".quantity", kindAmount, it.Quantity); err != nil {
		return err
	}
	return checkValue(field+".pricePerUnit", kindAmount, it.PricePerUnit)
}

func materialItemsFrom(v any) ([]entities.MaterialItem, error) {
	var items []entities.MaterialItem
	switch list := v.(type) {
	case nil:
		return nil, nil
	case []entities.MaterialItem:
		items = slices.Clone(list)
	case []any:
		if err := validateMaterialItems(list); err != nil {
			return nil, err
		}
		items = make([]entities.MaterialItem, 0, len(list))
		for _, raw := range list {
			m := raw.(map[string]any)
			it := entities.MaterialItem{}
			it.Name, _ = m["name"].(string)
			it.Quantity, _ = numberOf(m["quantity"])
			it.PricePerUnit, _ = numberOf(m["pricePerUnit"])
			items = append(items, it)
		}
	default:
		return nil, invalid("material.items", "expected a list, got %T", v)
	}
	for i := range items {
		if err := validateItem(fmt.Sprintf("material.items.%d", i), items[i]); err != nil {
			return nil, err
		}
		items[i].Total = 0
	}
	return items, nil
}

package budget

import (
	"encoding/json"
	"errors"
	"fmt"

	"catering_admin/internal/domain/entities"
)

var (
	clientInfoFields = []fieldSpec{
		{"name", kindString}, {"email", kindString}, {"phone", kindString},
		{"eventDate", kindString}, {"eventType", kindString}, {"guestCount", kindCount},
		{"address", kindString}, {"menuType", kindString},
	}
	menuFields = []fieldSpec{
		{"pricePerPerson", kindAmount}, {"totalPersons", kindCount}, {"tvaPct", kindPct},
		{"totalHT", kindNumber}, {"tva", kindNumber}, {"totalTTC", kindNumber},
	}
	serviceFields = []fieldSpec{
		{"mozos", kindCount}, {"hours", kindCount},
		{"pricePerHour", kindNumber}, {"tvaPct", kindNumber},
		{"totalHT", kindNumber}, {"tva", kindNumber}, {"totalTTC", kindNumber},
	}
	materialFields = []fieldSpec{
		{"tvaPct", kindPct}, {"totalHT", kindNumber}, {"tva", kindNumber}, {"totalTTC", kindNumber},
	}
	materialItemFields = []fieldSpec{
		{"name", kindString}, {"quantity", kindAmount}, {"pricePerUnit", kindAmount}, {"total", kindNumber},
	}
	deplacementFields = []fieldSpec{
		{"distance", kindAmount}, {"pricePerKm", kindAmount}, {"tvaPct", kindPct},
		{"totalHT", kindNumber}, {"tva", kindNumber}, {"totalTTC", kindNumber},
	}
	totalsFields = []fieldSpec{
		{"totalHT", kindNumber}, {"totalTVA", kindNumber}, {"totalTTC", kindNumber},
	}
	discountFields = []fieldSpec{
		{"reason", kindString}, {"percentage", kindPct}, {"amount", kindAmount},
	}
	documentFields = []fieldSpec{
		{"id", kindString}, {"status", kindString}, {"version", kindCount},
		{"pdfUrl", kindString}, {"createdAt", kindTime}, {"updatedAt", kindTime},
	}
)

// Load turns a persisted, loosely typed document into a consistent Budget:
// service constants are pinned, material item names canonicalised, an
// item-less material section dropped and every total recomputed.
//
// Malformed input is rejected with a *ValidationError naming the first
// offending field.
func Load(raw map[string]any) (entities.Budget, error) {
	if raw == nil {
		return entities.Budget{}, invalid("", "document is empty")
	}
	if err := validateDocument(raw); err != nil {
		return entities.Budget{}, err
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return entities.Budget{}, invalid("", "document is not serialisable: %v", err)
	}
	var b entities.Budget
	if err := json.Unmarshal(data, &b); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return entities.Budget{}, invalid(typeErr.Field, "expected %s, got %s", typeErr.Type, typeErr.Value)
		}
		return entities.Budget{}, invalid("", "document does not decode: %v", err)
	}

	if b.Status == "" {
		b.Status = entities.BudgetStatusDraft
	}
	if b.Material != nil {
		for i := range b.Material.Items {
			b.Material.Items[i].Name = CanonicalItemName(b.Material.Items[i].Name)
		}
	}
	return Recompute(b), nil
}

// LoadJSON is Load for a JSON encoded document.
func LoadJSON(data []byte) (entities.Budget, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return entities.Budget{}, invalid("", "document is not a JSON object: %v", err)
	}
	return Load(raw)
}

// Save returns the recomputed document in its persisted, loosely typed shape.
func Save(b entities.Budget) (map[string]any, error) {
	data, err := json.Marshal(Recompute(b))
	if err != nil {
		return nil, fmt.Errorf("encode budget: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode budget: %w", err)
	}
	return raw, nil
}

func validateDocument(raw map[string]any) error {
	if err := checkFields("", raw, documentFields); err != nil {
		return err
	}
	if s, ok := raw["status"].(string); ok && s != "" && !entities.BudgetStatus(s).Valid() {
		return invalid("status", "unknown status %q", s)
	}

	client, err := object("clientInfo", raw["clientInfo"], true)
	if err != nil {
		return err
	}
	if err := checkFields("clientInfo", client, clientInfoFields); err != nil {
		return err
	}
	if mt, ok := client["menuType"].(string); ok && !entities.MenuType(mt).Valid() {
		return invalid("clientInfo.menuType", "unknown menu type %q", mt)
	}

	sections := []struct {
		name   Section
		fields []fieldSpec
	}{
		{SectionMenu, menuFields},
		{SectionService, serviceFields},
		{SectionMaterial, materialFields},
		{SectionDeplacement, deplacementFields},
	}
	for _, s := range sections {
		obj, err := object(string(s.name), raw[string(s.name)], true)
		if err != nil {
			return err
		}
		if err := checkFields(string(s.name), obj, s.fields); err != nil {
			return err
		}
	}

	if mat, _ := raw["material"].(map[string]any); mat != nil {
		if err := validateMaterialItems(mat["items"]); err != nil {
			return err
		}
	}

	totals, err := object("totals", raw["totals"], true)
	if err != nil {
		return err
	}
	if err := checkFields("totals", totals, totalsFields); err != nil {
		return err
	}
	discount, err := object("totals.discount", totals["discount"], true)
	if err != nil {
		return err
	}
	return checkFields("totals.discount", discount, discountFields)
}

func validateMaterialItems(v any) error {
	if v == nil {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return invalid("material.items", "expected a list, got %T", v)
	}
	for i, raw := range items {
		field := fmt.Sprintf("material.items.%d", i)
		item, err := object(field, raw, false)
		if err != nil {
			return err
		}
		if err := checkFields(field, item, materialItemFields); err != nil {
			return err
		}
	}
	return nil
}

func object(field string, v any, optional bool) (map[string]any, error) {
	if v == nil {
		if optional {
			return nil, nil
		}
		return nil, invalid(field, "value is required")
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, invalid(field, "expected an object, got %T", v)
	}
	return m, nil
}

func checkFields(prefix string, obj map[string]any, specs []fieldSpec) error {
	for _, spec := range specs {
		field := spec.key
		if prefix != "" {
			field = prefix + "." + spec.key
		}
		if err := checkValue(field, spec.kind, obj[spec.key]); err != nil {
			return err
		}
	}
	return nil
}

// Normalize runs an in-memory budget through the same checks and
// normalisation as Load.
func Normalize(b entities.Budget) (entities.Budget, error) {
	raw, err := Save(b)
	if err != nil {
		return entities.Budget{}, invalid("", "%v", err)
	}
	return Load(raw)
}

package budget

// Service staff pricing policy. Recompute pins both values on every pass;
// callers can never override them.
const (
	ServicePricePerHour = 40
	ServiceTVAPct       = 20
)

// Defaults used when a section is added without caller-supplied values.
const (
	DefaultServiceMozos     = 1
	DefaultServiceHours     = 1
	DefaultMaterialTVAPct   = 20
	DefaultDeplacementTVA   = 20
	DefaultMaterialItemName = "Nouvel article"
)

// Section names a priced component of a budget.
type Section string

const (
	SectionMenu        Section = "menu"
	SectionService     Section = "service"
	SectionMaterial    Section = "material"
	SectionDeplacement Section = "deplacement"
)

// ParseSection maps a raw section name to a Section.
func ParseSection(name string) (Section, error) {
	switch s := Section(name); s {
	case SectionMenu, SectionService, SectionMaterial, SectionDeplacement:
		return s, nil
	}
	return "", invalid(name, "unknown section")
}

// staffTokens mark material lines that are really service staff. They are
// billed through the service section and never through material.
var staffTokens = []string{"serveur", "servicio", "mozos"}

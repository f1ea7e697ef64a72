package navlocale

import "github.com/fangbw17/sidebar/internal/domain"

// LocaleFile is the top-level structure of a navigation locale file
// (nav.json, nav.yaml). Unknown keys are ignored.
type LocaleFile struct {
	Nav     []domain.NavItem            `json:"nav" yaml:"nav"`
	Sidebar domain.NavigationDescriptor `json:"sidebar" yaml:"sidebar"`
}

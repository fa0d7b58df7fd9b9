package domain

// Persona carries per-request personalisation hints. It is ephemeral:
// attached to one request, never persisted as an entity.
type Persona struct {
	// Role is the user's job role (e.g. "Developer").
	Role string

	// Preferences describes response style preferences.
	Preferences string

	// Activity summarises the user's recent activity.
	Activity string
}

// Default persona values, used when the caller supplies none.
const (
	DefaultPersonaRole        = "Developer"
	DefaultPersonaPreferences = "Concise, annotated responses"
	DefaultPersonaActivity    = "General troubleshooting"
)

// WithDefaults returns a copy with empty fields replaced by the
// configured defaults, so every request carries a complete persona.
func (p Persona) WithDefaults(defaults Persona) Persona {
	if defaults.Role == "" {
		defaults.Role = DefaultPersonaRole
	}
	if defaults.Preferences == "" {
		defaults.Preferences = DefaultPersonaPreferences
	}
	if defaults.Activity == "" {
		defaults.Activity = DefaultPersonaActivity
	}

	if p.Role == "" {
		p.Role = defaults.Role
	}
	if p.Preferences == "" {
		p.Preferences = defaults.Preferences
	}
	if p.Activity == "" {
		p.Activity = defaults.Activity
	}
	return p
}

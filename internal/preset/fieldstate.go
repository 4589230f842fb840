package preset

// FieldState is the computed render state of one form field.
type FieldState struct {
	Visible  bool `json:"visible"`
	Disabled bool `json:"disabled"`
	Readonly bool `json:"readonly"`
}

// FieldStates maps field name to its computed state. Ephemeral; recomputed
// whenever the preset or a relevant form value changes, never persisted.
type FieldStates map[string]FieldState

// StateFor returns the state for a field, defaulting to visible and
// enabled for fields the preset does not declare.
func (m FieldStates) StateFor(field string) FieldState {
	if st, ok := m[field]; ok {
		return st
	}
	return FieldState{Visible: true}
}

// FieldValues resolves current scalar form values for conditional rules.
// Implemented by the form value tree.
type FieldValues interface {
	// FieldValue returns the string form of the named field's current
	// value, or "" when the field is unset or unknown.
	FieldValue(name string) string
}

// ComputeFieldStates derives the field-state matrix for a preset and the
// current form values. Pure and deterministic: identical inputs always
// yield identical matrices.
func ComputeFieldStates(cfg *Config, values FieldValues) FieldStates {
	states := make(FieldStates, len(cfg.FieldVisibility))
	for field, rule := range cfg.FieldVisibility {
		states[field] = resolveState(rule, values)
	}
	return states
}

func resolveState(rule FieldRule, values FieldValues) FieldState {
	switch rule.State {
	case VisibilityHidden:
		// Hidden fields are also disabled so an empty value never blocks
		// submission.
		return FieldState{Visible: false, Disabled: true}
	case VisibilityReadonly:
		return FieldState{Visible: true, Readonly: true}
	case VisibilityLocked:
		return FieldState{Visible: true, Disabled: true, Readonly: true}
	case VisibilityConditional:
		if values != nil && values.FieldValue(rule.When.Field) == rule.When.Equals {
			return FieldState{Visible: true}
		}
		return FieldState{Visible: false, Disabled: true}
	default:
		return FieldState{Visible: true}
	}
}

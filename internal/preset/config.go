// Package preset defines the quest archetype configurations that drive the
// admin form: per-field visibility, locked values, defaults, business rules
// and connect-gate dependencies. Configs are validated once at registration
// and treated as trusted input everywhere else.
package preset

import (
	"fmt"

	"github.com/waveline/questadmin/internal/types"
)

// Form field names referenced by preset configs. These match the JSON field
// names of the form value tree.
const (
	FieldTitle        = "title"
	FieldType         = "type"
	FieldDescription  = "description"
	FieldGroup        = "group"
	FieldOrderBy      = "order_by"
	FieldProvider     = "provider"
	FieldURI          = "uri"
	FieldReward       = "reward"
	FieldTotalReward  = "totalReward"
	FieldEnabled      = "enabled"
	FieldWeb          = "web"
	FieldTWA          = "twa"
	FieldPinned       = "pinned"
	FieldLevel        = "level"
	FieldIcon         = "icon"
	FieldChild        = "child"
	FieldIterator     = "iterator"
	FieldStart        = "start"
	FieldEnd          = "end"
	FieldBlockingTask = "blocking_task"
	FieldResources    = "resources"
)

// knownFields enumerates every field name a config may reference.
var knownFields = map[string]struct{}{
	FieldTitle: {}, FieldType: {}, FieldDescription: {}, FieldGroup: {},
	FieldOrderBy: {}, FieldProvider: {}, FieldURI: {}, FieldReward: {},
	FieldTotalReward: {}, FieldEnabled: {}, FieldWeb: {}, FieldTWA: {},
	FieldPinned: {}, FieldLevel: {}, FieldIcon: {}, FieldChild: {},
	FieldIterator: {}, FieldStart: {}, FieldEnd: {}, FieldBlockingTask: {},
	FieldResources: {},
}

// lockableFields enumerates fields that may carry a locked value.
var lockableFields = map[string]struct{}{
	FieldType: {}, FieldProvider: {}, FieldGroup: {},
}

// Visibility is the declared state of a form field for a preset.
type Visibility string

const (
	VisibilityVisible     Visibility = "visible"
	VisibilityHidden      Visibility = "hidden"
	VisibilityReadonly    Visibility = "readonly"
	VisibilityLocked      Visibility = "locked"
	VisibilityConditional Visibility = "conditional"
)

// Condition is the declarative predicate for conditional fields:
// the field is visible only while the referenced form value equals Equals.
type Condition struct {
	Field  string
	Equals string
}

// FieldRule pairs a visibility state with its condition, if any.
type FieldRule struct {
	State Visibility
	When  *Condition
}

// RuleKind identifies one business rule variant. The set is closed; the
// rules engine warns and skips anything it does not recognize.
type RuleKind string

const (
	// RuleAutoPopupCopy fills resources.ui.pop-up name and description
	// from the quest group.
	RuleAutoPopupCopy RuleKind = "auto_popup_copy"
	// RuleButtonTextByProvider forces resources.ui.button per provider.
	RuleButtonTextByProvider RuleKind = "button_text_by_provider"
	// RuleTotalReward recomputes totalReward from the source declared in
	// the preset's reward calculation.
	RuleTotalReward RuleKind = "total_reward"
	// RuleChildOrderFromIndex rewrites each child's order_by to its
	// position in the child list.
	RuleChildOrderFromIndex RuleKind = "child_order_from_index"
)

// PopupCopy is the generated popup name/description for one quest group.
type PopupCopy struct {
	Name        string
	Description string
}

// BusinessRule is one declarative transformation applied to form values
// before validation and submission. Exactly one payload field is set,
// matching Kind.
type BusinessRule struct {
	Kind RuleKind

	// PopupCopy maps quest group to generated popup copy (RuleAutoPopupCopy).
	PopupCopy map[string]PopupCopy
	// ButtonText maps provider to forced button text (RuleButtonTextByProvider).
	ButtonText map[string]string
}

// GateMode selects how a connect-gate dependency is triggered.
type GateMode string

const (
	// GateRequired always requires a connect quest for the quest's provider.
	GateRequired GateMode = "required"
	// GateConditional requires the gate only when the quest URI's domain
	// is one of TriggerDomains.
	GateConditional GateMode = "conditional"
)

// ConnectGateRule declares that quests built from this preset depend on an
// existing "connect" quest for a matching provider.
type ConnectGateRule struct {
	Mode GateMode
	// TriggerDomains lists URI domains that activate a conditional gate.
	TriggerDomains []string
}

// RewardSource selects where a derived totalReward is computed from.
type RewardSource string

const (
	RewardFromChildren  RewardSource = "tasks"
	RewardFromRewardMap RewardSource = "iterator.reward_map"
)

// RewardCalculation declares how the derived totalReward field is computed.
type RewardCalculation struct {
	Source   RewardSource
	Field    string
	Readonly bool
}

// Defaults seeds a new form session for a preset.
type Defaults struct {
	Type      types.TaskType
	Group     string
	Provider  string
	Reward    float64
	Level     int
	Enabled   bool
	Web       bool
	TWA       bool
	Iterator  *types.Iterator
	Resources *types.Resource
}

// Config is one quest archetype. Immutable after registration.
type Config struct {
	ID          string
	Name        string
	Description string
	Icon        string

	FieldVisibility map[string]FieldRule
	LockedFields    map[string]string
	Defaults        Defaults
	BusinessRules   []BusinessRule
	ConnectGate     *ConnectGateRule
	RewardCalc      *RewardCalculation

	// SpecialComponents names UI editors the preset activates. Opaque to
	// this service; passed through to the dashboard.
	SpecialComponents []string
}

// validate checks the structural schema of a config. Called once at
// registration; a config that passes is trusted by the rest of the system.
func (c *Config) validate() error {
	if c.ID == "" {
		return fmt.Errorf("preset config: missing id")
	}
	if c.Name == "" {
		return fmt.Errorf("preset %q: missing name", c.ID)
	}

	for field, rule := range c.FieldVisibility {
		if _, ok := knownFields[field]; !ok {
			return fmt.Errorf("preset %q: unknown field %q in fieldVisibility", c.ID, field)
		}
		switch rule.State {
		case VisibilityVisible, VisibilityHidden, VisibilityReadonly, VisibilityLocked:
			if rule.When != nil {
				return fmt.Errorf("preset %q: field %q: condition only valid for conditional state", c.ID, field)
			}
		case VisibilityConditional:
			if rule.When == nil {
				return fmt.Errorf("preset %q: field %q: conditional state requires a condition", c.ID, field)
			}
			if _, ok := knownFields[rule.When.Field]; !ok {
				return fmt.Errorf("preset %q: field %q: condition references unknown field %q", c.ID, field, rule.When.Field)
			}
		default:
			return fmt.Errorf("preset %q: field %q: unknown visibility %q", c.ID, field, rule.State)
		}
	}

	for field, value := range c.LockedFields {
		if _, ok := lockableFields[field]; !ok {
			return fmt.Errorf("preset %q: field %q is not lockable", c.ID, field)
		}
		if value == "" {
			return fmt.Errorf("preset %q: locked field %q has empty value", c.ID, field)
		}
		if rule, ok := c.FieldVisibility[field]; !ok || rule.State != VisibilityLocked {
			return fmt.Errorf("preset %q: locked field %q must be declared locked in fieldVisibility", c.ID, field)
		}
	}
	for field, rule := range c.FieldVisibility {
		if rule.State != VisibilityLocked {
			continue
		}
		if _, ok := c.LockedFields[field]; !ok {
			return fmt.Errorf("preset %q: field %q declared locked without a locked value", c.ID, field)
		}
	}

	for i, rule := range c.BusinessRules {
		switch rule.Kind {
		case RuleAutoPopupCopy:
			if len(rule.PopupCopy) == 0 {
				return fmt.Errorf("preset %q: rule %d: auto_popup_copy requires popup copy per group", c.ID, i)
			}
		case RuleButtonTextByProvider:
			if len(rule.ButtonText) == 0 {
				return fmt.Errorf("preset %q: rule %d: button_text_by_provider requires button text per provider", c.ID, i)
			}
		case RuleTotalReward:
			if c.RewardCalc == nil {
				return fmt.Errorf("preset %q: rule %d: total_reward requires a reward calculation", c.ID, i)
			}
		case RuleChildOrderFromIndex:
			// No payload.
		default:
			return fmt.Errorf("preset %q: rule %d: unknown rule kind %q", c.ID, i, rule.Kind)
		}
	}

	if g := c.ConnectGate; g != nil {
		switch g.Mode {
		case GateRequired:
			if len(g.TriggerDomains) > 0 {
				return fmt.Errorf("preset %q: connect gate: trigger domains only valid for conditional mode", c.ID)
			}
		case GateConditional:
			if len(g.TriggerDomains) == 0 {
				return fmt.Errorf("preset %q: connect gate: conditional mode requires trigger domains", c.ID)
			}
		default:
			return fmt.Errorf("preset %q: connect gate: unknown mode %q", c.ID, g.Mode)
		}
	}

	if rc := c.RewardCalc; rc != nil {
		if rc.Source != RewardFromChildren && rc.Source != RewardFromRewardMap {
			return fmt.Errorf("preset %q: reward calculation: unknown source %q", c.ID, rc.Source)
		}
		if rc.Field != FieldTotalReward {
			return fmt.Errorf("preset %q: reward calculation: unsupported target field %q", c.ID, rc.Field)
		}
	}

	return nil
}

package form

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/waveline/questadmin/internal/preset"
	"github.com/waveline/questadmin/internal/types"
	"github.com/waveline/questadmin/internal/validation"
)

// Bounds for a repeatable quest's daily reward map.
const (
	minRewardMapLen = 3
	maxRewardMapLen = 10
)

// ValidateRequiredFields validates the whole form value tree against the
// type-specific requirements. All failures accumulate; the caller always
// sees the complete error set in one pass.
func ValidateRequiredFields(v QuestFormValues) validation.Result {
	var c validation.Collector

	c.Add(validation.Required(preset.FieldTitle, v.Title))
	if v.Type == "" {
		c.Addf(preset.FieldType, validation.TypeRequired, "is required")
	} else if !types.IsValidTaskType(v.Type) {
		c.Addf(preset.FieldType, validation.TypeInvalid, "unknown quest type %q", v.Type)
	}
	c.Add(validation.Required(preset.FieldGroup, v.Group))
	if v.Reward != nil {
		c.Add(validation.NonNegative(preset.FieldReward, *v.Reward))
	} else if v.Type != types.TypeMultiple && v.Type != types.TypeRepeatable {
		// Multiple and repeatable quests derive their reward; everything
		// else must state one.
		c.Addf(preset.FieldReward, validation.TypeRequired, "is required")
	}

	switch v.Type {
	case types.TypeMultiple:
		c.Add(validation.Required(preset.FieldURI, v.URI))
		if len(v.Child) == 0 {
			c.Addf(preset.FieldChild, validation.TypeRequired, "at least one child task is required")
		}
		for i, child := range v.Child {
			validateChild(&c, i, child)
		}
	case types.TypeJoin:
		c.Add(validation.Required(preset.FieldURI, v.URI))
		c.Add(validation.Required(preset.FieldProvider, v.Provider))
	case types.TypeConnect:
		c.Add(validation.Required(preset.FieldProvider, v.Provider))
	case types.TypeExternal:
		if err := validation.Required(preset.FieldURI, v.URI); err != nil {
			c.Add(err)
		} else {
			c.Add(validation.AbsoluteURL(preset.FieldURI, v.URI))
		}
	case types.TypeRepeatable:
		validateIterator(&c, v.Iterator)
	}

	return c.Result()
}

func validateChild(c *validation.Collector, i int, child ChildFormValues) {
	path := func(field string) string {
		return fmt.Sprintf("child[%d].%s", i, field)
	}

	c.Add(validation.Required(path(preset.FieldTitle), child.Title))
	if child.Type == "" {
		c.Addf(path(preset.FieldType), validation.TypeRequired, "is required")
	} else if !types.IsValidChildType(child.Type) {
		c.Addf(path(preset.FieldType), validation.TypeInvalid, "type %q is not allowed for child tasks", child.Type)
	}
	if child.Reward == nil {
		c.Addf(path(preset.FieldReward), validation.TypeRequired, "is required")
	} else if *child.Reward < 0 {
		c.Addf(path(preset.FieldReward), validation.TypeInvalid, "must be a non-negative number")
	}
}

func validateIterator(c *validation.Collector, it *types.Iterator) {
	if it == nil {
		c.Addf(preset.FieldIterator, validation.TypeRequired, "is required")
		return
	}
	if n := len(it.RewardMap); n < minRewardMapLen || n > maxRewardMapLen {
		c.Addf("iterator.reward_map", validation.TypeConstraint,
			"must contain between %d and %d entries, got %d", minRewardMapLen, maxRewardMapLen, n)
		return
	}
	for i, r := range it.RewardMap {
		if r < 0 {
			c.Addf(fmt.Sprintf("iterator.reward_map[%d]", i), validation.TypeInvalid,
				"must be a non-negative number")
		}
	}
}

// ValidateConnectUniqueness checks that no other "connect" quest already
// claims the same provider. The quest being edited is excluded by id.
func ValidateConnectUniqueness(v QuestFormValues, existing []types.Task) []validation.FieldError {
	if v.Type != types.TypeConnect || v.Provider == "" {
		return nil
	}
	for _, t := range existing {
		if t.Type == types.TypeConnect && t.Provider == v.Provider && t.ID != v.ID {
			return []validation.FieldError{{
				Field:   preset.FieldProvider,
				Message: fmt.Sprintf("a connect quest for provider %q already exists", v.Provider),
				Type:    validation.TypeDuplicate,
			}}
		}
	}
	return nil
}

// ValidateMultipleUniqueness checks that no other "multiple" quest already
// targets the same URI. The quest being edited is excluded by id.
func ValidateMultipleUniqueness(v QuestFormValues, existing []types.Task) []validation.FieldError {
	if v.Type != types.TypeMultiple || v.URI == "" {
		return nil
	}
	for _, t := range existing {
		if t.Type == types.TypeMultiple && t.URI == v.URI && t.ID != v.ID {
			return []validation.FieldError{{
				Field:   preset.FieldURI,
				Message: fmt.Sprintf("a multiple quest for uri %q already exists", v.URI),
				Type:    validation.TypeDuplicate,
			}}
		}
	}
	return nil
}

// ValidateBlockingDependency checks the connect-gate: a quest tied to a
// provider must be preceded by a connect quest for that provider unless an
// explicit blocking task is set.
func ValidateBlockingDependency(v QuestFormValues, existing []types.Task) []validation.FieldError {
	if v.Provider == "" || v.Type == types.TypeConnect || v.BlockingTask != "" {
		return nil
	}
	for _, t := range existing {
		if t.Type == types.TypeConnect && t.Provider == v.Provider {
			return nil
		}
	}
	return []validation.FieldError{{
		Field:   preset.FieldProvider,
		Message: fmt.Sprintf("no connect quest exists for provider %q; create one first or set a blocking task", v.Provider),
		Type:    validation.TypeDependency,
	}}
}

// ValidateConnectGate evaluates a preset's connect-gate declaration. A
// required gate always demands a connect quest for the form's provider; a
// conditional gate demands one only while the quest URI points at one of
// the trigger domains. An explicit blocking task satisfies the gate.
func ValidateConnectGate(v QuestFormValues, cfg *preset.Config, existing []types.Task) []validation.FieldError {
	g := cfg.ConnectGate
	if g == nil || v.BlockingTask != "" {
		return nil
	}
	if g.Mode == preset.GateConditional && !URIDomainMatches(v.URI, g.TriggerDomains) {
		return nil
	}
	if v.Provider == "" {
		return []validation.FieldError{{
			Field:   preset.FieldProvider,
			Message: fmt.Sprintf("preset %q requires a provider for its connect dependency", cfg.ID),
			Type:    validation.TypeDependency,
		}}
	}
	for _, t := range existing {
		if t.Type == types.TypeConnect && t.Provider == v.Provider {
			return nil
		}
	}
	return []validation.FieldError{{
		Field:   preset.FieldProvider,
		Message: fmt.Sprintf("no connect quest exists for provider %q; create one first or set a blocking task", v.Provider),
		Type:    validation.TypeDependency,
	}}
}

// ValidatePresetCompatibility asserts the structural fields a preset
// mandates, e.g. action-with-post requires type "multiple" and provider
// "twitter".
func ValidatePresetCompatibility(v QuestFormValues, presetID string) []validation.FieldError {
	cfg, err := preset.Get(presetID)
	if err != nil {
		return []validation.FieldError{{
			Field:   "preset",
			Message: fmt.Sprintf("unknown preset %q", presetID),
			Type:    validation.TypeInvalid,
		}}
	}

	var errs []validation.FieldError
	for field, want := range cfg.LockedFields {
		if got := v.FieldValue(field); got != want {
			errs = append(errs, validation.FieldError{
				Field:   field,
				Message: fmt.Sprintf("preset %q requires %s to be %q", presetID, field, want),
				Type:    validation.TypeConstraint,
			})
		}
	}
	return errs
}

// ValidateQuest runs full-form validation plus every cross-quest check and
// merges the results. Nothing short-circuits.
func ValidateQuest(v QuestFormValues, existing []types.Task) validation.Result {
	var c validation.Collector
	c.Merge(ValidateRequiredFields(v).Errors)
	c.Merge(ValidateConnectUniqueness(v, existing))
	c.Merge(ValidateMultipleUniqueness(v, existing))

	// A preset's gate declaration refines the generic provider dependency;
	// without one the generic rule applies.
	var gated bool
	if v.Preset != "" {
		c.Merge(ValidatePresetCompatibility(v, v.Preset))
		if cfg, err := preset.Get(v.Preset); err == nil && cfg.ConnectGate != nil {
			c.Merge(ValidateConnectGate(v, cfg, existing))
			gated = true
		}
	}
	if !gated {
		c.Merge(ValidateBlockingDependency(v, existing))
	}
	return c.Result()
}

// URIDomainMatches reports whether the URI's host (less any www prefix)
// equals one of the given domains. Used by conditional connect gates.
func URIDomainMatches(uri string, domains []string) bool {
	u, err := url.Parse(uri)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	for _, d := range domains {
		if host == strings.ToLower(d) {
			return true
		}
	}
	return false
}

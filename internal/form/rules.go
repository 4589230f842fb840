package form

import (
	"fmt"
	"log/slog"

	"github.com/waveline/questadmin/internal/preset"
	"github.com/waveline/questadmin/internal/types"
)

// ApplyBusinessRules applies the preset's business rules to the form values
// in declaration order and returns the transformed copy. Rules are strict:
// a rule whose precondition references absent data fails with an error so
// preset/data mismatches surface immediately instead of persisting a
// partially-initialized quest. Unknown rule kinds are logged and skipped.
func ApplyBusinessRules(values QuestFormValues, cfg *preset.Config) (QuestFormValues, error) {
	v := values.Clone()

	for _, rule := range cfg.BusinessRules {
		var err error
		switch rule.Kind {
		case preset.RuleAutoPopupCopy:
			err = applyPopupCopy(&v, rule.PopupCopy)
		case preset.RuleButtonTextByProvider:
			err = applyButtonText(&v, rule.ButtonText)
		case preset.RuleTotalReward:
			err = applyTotalReward(&v, cfg.RewardCalc)
		case preset.RuleChildOrderFromIndex:
			applyChildOrder(&v)
		default:
			slog.Warn("skipping unknown business rule",
				"preset", cfg.ID,
				"kind", string(rule.Kind),
			)
		}
		if err != nil {
			return QuestFormValues{}, fmt.Errorf("business rule %s: %w", rule.Kind, err)
		}
	}

	return v, nil
}

func applyPopupCopy(v *QuestFormValues, copyByGroup map[string]preset.PopupCopy) error {
	if v.Resources == nil || v.Resources.UI == nil {
		return fmt.Errorf("resources.ui is not initialized")
	}
	popup, ok := copyByGroup[v.Group]
	if !ok {
		return fmt.Errorf("no popup copy defined for group %q", v.Group)
	}
	if v.Resources.UI.PopUp == nil {
		v.Resources.UI.PopUp = &types.PopupResource{}
	}
	v.Resources.UI.PopUp.Name = popup.Name
	v.Resources.UI.PopUp.Description = popup.Description
	return nil
}

func applyButtonText(v *QuestFormValues, textByProvider map[string]string) error {
	if v.Resources == nil || v.Resources.UI == nil {
		return fmt.Errorf("resources.ui is not initialized")
	}
	text, ok := textByProvider[v.Provider]
	if !ok {
		return fmt.Errorf("no button text defined for provider %q", v.Provider)
	}
	v.Resources.UI.Button = text
	return nil
}

func applyTotalReward(v *QuestFormValues, calc *preset.RewardCalculation) error {
	if calc == nil {
		return fmt.Errorf("preset declares no reward calculation")
	}

	var total float64
	switch calc.Source {
	case preset.RewardFromChildren:
		for i, child := range v.Child {
			if child.Reward == nil {
				return fmt.Errorf("child %d reward is not a number", i)
			}
			total += *child.Reward
		}
	case preset.RewardFromRewardMap:
		if v.Iterator == nil {
			return fmt.Errorf("iterator is not initialized")
		}
		for _, r := range v.Iterator.RewardMap {
			total += r
		}
	default:
		return fmt.Errorf("unknown reward source %q", calc.Source)
	}

	v.TotalReward = &total
	return nil
}

// applyChildOrder rewrites every child's order_by to its list position.
// Always recomputed; manual edits do not survive reordering.
func applyChildOrder(v *QuestFormValues) {
	for i := range v.Child {
		idx := i
		v.Child[i].OrderBy = &idx
	}
}

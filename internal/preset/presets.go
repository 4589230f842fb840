package preset

import "github.com/waveline/questadmin/internal/types"

// Popup copy generated per quest group by the auto_popup_copy rule.
var popupCopyByGroup = map[string]PopupCopy{
	types.GroupSocial: {
		Name:        "Social quest",
		Description: "Complete the social task to earn your reward.",
	},
	types.GroupPartner: {
		Name:        "Partner quest",
		Description: "Complete the partner task to earn your reward.",
	},
	types.GroupDaily: {
		Name:        "Daily quest",
		Description: "Come back every day to keep your streak alive.",
	},
	types.GroupAcademy: {
		Name:        "Academy quest",
		Description: "Learn something new and earn your reward.",
	},
}

// iconWhenPartner shows the icon field only for partner quests; other
// groups use the provider's stock icon.
var iconWhenPartner = FieldRule{
	State: VisibilityConditional,
	When:  &Condition{Field: FieldGroup, Equals: types.GroupPartner},
}

// RegisterDefaults registers the built-in quest archetypes. Panics on a
// malformed config; presets are a startup guarantee.
func RegisterDefaults() {
	MustRegister(connectPreset())
	MustRegister(joinPreset())
	MustRegister(actionWithPostPreset())
	MustRegister(sevenDayChallengePreset())
	MustRegister(explorePreset())
}

func connectPreset() *Config {
	return &Config{
		ID:          "connect",
		Name:        "Connect account",
		Description: "Link a social account to the waitlist profile.",
		Icon:        "link",
		FieldVisibility: map[string]FieldRule{
			FieldType:        {State: VisibilityLocked},
			FieldProvider:    {State: VisibilityVisible},
			FieldURI:         {State: VisibilityHidden},
			FieldChild:       {State: VisibilityHidden},
			FieldIterator:    {State: VisibilityHidden},
			FieldTotalReward: {State: VisibilityHidden},
			FieldIcon:        iconWhenPartner,
		},
		LockedFields: map[string]string{
			FieldType: string(types.TypeConnect),
		},
		Defaults: Defaults{
			Type:      types.TypeConnect,
			Group:     types.GroupSocial,
			Enabled:   true,
			Web:       true,
			TWA:       true,
			Resources: &types.Resource{UI: &types.UIResource{}},
		},
		BusinessRules: []BusinessRule{
			{Kind: RuleButtonTextByProvider, ButtonText: map[string]string{
				types.ProviderTwitter:  "Connect X",
				types.ProviderDiscord:  "Connect Discord",
				types.ProviderTelegram: "Connect Telegram",
				types.ProviderYoutube:  "Connect YouTube",
			}},
		},
	}
}

func joinPreset() *Config {
	return &Config{
		ID:          "join",
		Name:        "Join community",
		Description: "Follow or join a community on a connected provider.",
		Icon:        "users",
		FieldVisibility: map[string]FieldRule{
			FieldType:        {State: VisibilityLocked},
			FieldProvider:    {State: VisibilityVisible},
			FieldURI:         {State: VisibilityVisible},
			FieldChild:       {State: VisibilityHidden},
			FieldIterator:    {State: VisibilityHidden},
			FieldTotalReward: {State: VisibilityHidden},
			FieldIcon:        iconWhenPartner,
		},
		LockedFields: map[string]string{
			FieldType: string(types.TypeJoin),
		},
		Defaults: Defaults{
			Type:      types.TypeJoin,
			Group:     types.GroupSocial,
			Enabled:   true,
			Web:       true,
			TWA:       true,
			Resources: &types.Resource{UI: &types.UIResource{}},
		},
		BusinessRules: []BusinessRule{
			{Kind: RuleButtonTextByProvider, ButtonText: map[string]string{
				types.ProviderTwitter:  "Follow",
				types.ProviderDiscord:  "Join server",
				types.ProviderTelegram: "Join channel",
				types.ProviderYoutube:  "Subscribe",
			}},
		},
		ConnectGate: &ConnectGateRule{Mode: GateRequired},
	}
}

func actionWithPostPreset() *Config {
	return &Config{
		ID:          "action-with-post",
		Name:        "Action with post",
		Description: "Engage with a post: like, repost and comment as separate sub-quests.",
		Icon:        "megaphone",
		FieldVisibility: map[string]FieldRule{
			FieldType:        {State: VisibilityLocked},
			FieldProvider:    {State: VisibilityLocked},
			FieldURI:         {State: VisibilityVisible},
			FieldChild:       {State: VisibilityVisible},
			FieldIterator:    {State: VisibilityHidden},
			FieldReward:      {State: VisibilityHidden},
			FieldTotalReward: {State: VisibilityReadonly},
			FieldIcon:        iconWhenPartner,
		},
		LockedFields: map[string]string{
			FieldType:     string(types.TypeMultiple),
			FieldProvider: types.ProviderTwitter,
		},
		Defaults: Defaults{
			Type:      types.TypeMultiple,
			Group:     types.GroupSocial,
			Provider:  types.ProviderTwitter,
			Enabled:   true,
			Web:       true,
			TWA:       true,
			Resources: &types.Resource{UI: &types.UIResource{}},
		},
		BusinessRules: []BusinessRule{
			{Kind: RuleAutoPopupCopy, PopupCopy: popupCopyByGroup},
			{Kind: RuleChildOrderFromIndex},
			{Kind: RuleTotalReward},
		},
		ConnectGate: &ConnectGateRule{
			Mode:           GateConditional,
			TriggerDomains: []string{"twitter.com", "x.com"},
		},
		RewardCalc: &RewardCalculation{
			Source:   RewardFromChildren,
			Field:    FieldTotalReward,
			Readonly: true,
		},
		SpecialComponents: []string{"TasksEditor"},
	}
}

func sevenDayChallengePreset() *Config {
	return &Config{
		ID:          "seven-day-challenge",
		Name:        "Seven day challenge",
		Description: "Daily check-in streak with escalating rewards.",
		Icon:        "calendar",
		FieldVisibility: map[string]FieldRule{
			FieldType:        {State: VisibilityLocked},
			FieldProvider:    {State: VisibilityHidden},
			FieldURI:         {State: VisibilityHidden},
			FieldChild:       {State: VisibilityHidden},
			FieldIterator:    {State: VisibilityVisible},
			FieldReward:      {State: VisibilityHidden},
			FieldTotalReward: {State: VisibilityReadonly},
		},
		LockedFields: map[string]string{
			FieldType: string(types.TypeRepeatable),
		},
		Defaults: Defaults{
			Type:      types.TypeRepeatable,
			Group:     types.GroupDaily,
			Enabled:   true,
			Web:       true,
			TWA:       true,
			Resources: &types.Resource{UI: &types.UIResource{}},
			Iterator:  &types.Iterator{
				Days:      7,
				RewardMap: []float64{5, 10, 15, 20, 25, 30, 50},
			},
		},
		BusinessRules: []BusinessRule{
			{Kind: RuleAutoPopupCopy, PopupCopy: popupCopyByGroup},
			{Kind: RuleTotalReward},
		},
		RewardCalc: &RewardCalculation{
			Source:   RewardFromRewardMap,
			Field:    FieldTotalReward,
			Readonly: true,
		},
		SpecialComponents: []string{"DailyRewardsEditor"},
	}
}

func explorePreset() *Config {
	return &Config{
		ID:          "explore",
		Name:        "Explore",
		Description: "Visit an external page or product.",
		Icon:        "compass",
		FieldVisibility: map[string]FieldRule{
			FieldType:        {State: VisibilityLocked},
			FieldProvider:    {State: VisibilityHidden},
			FieldURI:         {State: VisibilityVisible},
			FieldChild:       {State: VisibilityHidden},
			FieldIterator:    {State: VisibilityHidden},
			FieldTotalReward: {State: VisibilityHidden},
			FieldIcon:        iconWhenPartner,
		},
		LockedFields: map[string]string{
			FieldType: string(types.TypeExternal),
		},
		Defaults: Defaults{
			Type:      types.TypeExternal,
			Group:     types.GroupPartner,
			Enabled:   true,
			Web:       true,
			TWA:       true,
			Resources: &types.Resource{UI: &types.UIResource{}},
		},
		BusinessRules: []BusinessRule{
			{Kind: RuleAutoPopupCopy, PopupCopy: popupCopyByGroup},
		},
	}
}

package preset

import (
	"errors"
	"testing"

	"github.com/waveline/questadmin/internal/types"
)

func validConfig(id string) *Config {
	return &Config{
		ID:   id,
		Name: "Test preset",
		FieldVisibility: map[string]FieldRule{
			FieldType: {State: VisibilityLocked},
		},
		LockedFields: map[string]string{
			FieldType: string(types.TypeExternal),
		},
		Defaults: Defaults{
			Type:    types.TypeExternal,
			Group:   types.GroupPartner,
			Enabled: true,
		},
	}
}

// --- Register Tests ---

func TestRegister_Valid(t *testing.T) {
	Reset()
	defer Reset()

	if err := Register(validConfig("test")); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if !IsValid("test") {
		t.Error("IsValid(test) = false after registration")
	}
}

func TestRegister_Duplicate(t *testing.T) {
	Reset()
	defer Reset()

	if err := Register(validConfig("test")); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := Register(validConfig("test")); err == nil {
		t.Error("Register(duplicate) = nil, want error")
	}
}

func TestRegister_Invalid(t *testing.T) {
	Reset()
	defer Reset()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty id", func(c *Config) { c.ID = "" }},
		{"empty name", func(c *Config) { c.Name = "" }},
		{"unknown field", func(c *Config) {
			c.FieldVisibility["bogus"] = FieldRule{State: VisibilityVisible}
		}},
		{"conditional without predicate", func(c *Config) {
			c.FieldVisibility[FieldIcon] = FieldRule{State: VisibilityConditional}
		}},
		{"locked without value", func(c *Config) {
			c.FieldVisibility[FieldProvider] = FieldRule{State: VisibilityLocked}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig("test-" + tt.name)
			tt.mutate(cfg)
			if err := Register(cfg); err == nil {
				t.Error("Register() = nil, want error")
			}
		})
	}
}

// --- Get Tests ---

func TestGet_Unknown(t *testing.T) {
	Reset()
	defer Reset()

	_, err := Get("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(nope) error = %v, want ErrNotFound", err)
	}
}

func TestGet_Found(t *testing.T) {
	Reset()
	defer Reset()

	MustRegister(validConfig("test"))
	cfg, err := Get("test")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if cfg.ID != "test" {
		t.Errorf("cfg.ID = %q, want %q", cfg.ID, "test")
	}
}

// --- List Tests ---

func TestList_RegistrationOrder(t *testing.T) {
	Reset()
	defer Reset()

	MustRegister(validConfig("b"))
	MustRegister(validConfig("a"))
	MustRegister(validConfig("c"))

	got := List()
	want := []string{"b", "a", "c"}
	if len(got) != len(want) {
		t.Fatalf("len(List()) = %d, want %d", len(got), len(want))
	}
	for i, cfg := range got {
		if cfg.ID != want[i] {
			t.Errorf("List()[%d].ID = %q, want %q", i, cfg.ID, want[i])
		}
	}
}

// --- Built-in Preset Tests ---

func TestRegisterDefaults(t *testing.T) {
	Reset()
	defer Reset()

	RegisterDefaults()

	for _, id := range []string{"connect", "join", "action-with-post", "seven-day-challenge", "explore"} {
		if !IsValid(id) {
			t.Errorf("IsValid(%q) = false, want true", id)
		}
	}
	if got := len(List()); got != 5 {
		t.Errorf("len(List()) = %d, want 5", got)
	}
}

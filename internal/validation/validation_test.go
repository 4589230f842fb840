package validation

import (
	"encoding/json"
	"strings"
	"testing"
)

// --- Collector Tests ---

func TestCollector_Empty(t *testing.T) {
	var c Collector

	if c.HasErrors() {
		t.Error("HasErrors() = true for empty collector, want false")
	}
	result := c.Result()
	if !result.Valid {
		t.Error("Result().Valid = false for empty collector, want true")
	}
}

func TestCollector_Accumulates(t *testing.T) {
	var c Collector
	c.Add(Required("title", ""))
	c.Addf("reward", TypeInvalid, "must be a non-negative number")
	c.Merge([]FieldError{{Field: "uri", Message: "is required", Type: TypeRequired}})

	if got := len(c.Errors()); got != 3 {
		t.Fatalf("len(Errors()) = %d, want 3", got)
	}
	result := c.Result()
	if result.Valid {
		t.Error("Result().Valid = true with errors, want false")
	}
}

func TestCollector_AddNil(t *testing.T) {
	var c Collector
	c.Add(Required("title", "ok"))

	if c.HasErrors() {
		t.Error("Add(nil) recorded an error")
	}
}

// --- Result JSON Tests ---

func TestResult_MarshalEmptyErrors(t *testing.T) {
	data, err := json.Marshal(Result{Valid: true})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"errors":[]`) {
		t.Errorf("Marshal() = %s, want errors serialized as []", data)
	}
	if !strings.Contains(string(data), `"isValid":true`) {
		t.Errorf("Marshal() = %s, want isValid key", data)
	}
}

// --- Required Tests ---

func TestRequired(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"present", "hello", false},
		{"empty", "", true},
		{"whitespace", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Required("title", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Required(%q) = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err != nil && err.Type != TypeRequired {
				t.Errorf("error.Type = %q, want %q", err.Type, TypeRequired)
			}
		})
	}
}

// --- NonNegative Tests ---

func TestNonNegative(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"positive", 12.5, false},
		{"negative", -0.1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NonNegative("reward", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("NonNegative(%v) = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

// --- AbsoluteURL Tests ---

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"https", "https://example.com/page", false},
		{"http", "http://example.com", false},
		{"relative", "/page", true},
		{"no scheme", "example.com/page", true},
		{"ftp", "ftp://example.com", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AbsoluteURL("uri", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("AbsoluteURL(%q) = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

// --- Enum Tests ---

func TestEnum(t *testing.T) {
	allowed := []string{"connect", "join", "external"}

	if err := Enum("type", "join", allowed); err != nil {
		t.Errorf("Enum(join) = %v, want nil", err)
	}

	err := Enum("type", "bogus", allowed)
	if err == nil {
		t.Fatal("Enum(bogus) = nil, want error")
	}
	if !strings.Contains(err.Message, "connect, join, external") {
		t.Errorf("error.Message = %q, want allowed list included", err.Message)
	}
}

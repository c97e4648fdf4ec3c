package checkout

import "testing"

func TestCardDetailsValid(t *testing.T) {
	valid := CardDetails{
		Number:     "4111111111111111",
		Expiry:     "12/27",
		CVV:        "123",
		HolderName: "Amina Hassan",
	}

	tests := []struct {
		name     string
		mutate   func(c CardDetails) CardDetails
		expected bool
	}{
		{
			name:     "all fields valid",
			mutate:   func(c CardDetails) CardDetails { return c },
			expected: true,
		},
		{
			name:     "short number",
			mutate:   func(c CardDetails) CardDetails { c.Number = "411111111111111"; return c },
			expected: false,
		},
		{
			name:     "number with letters",
			mutate:   func(c CardDetails) CardDetails { c.Number = "4111111111111a11"; return c },
			expected: false,
		},
		{
			name:     "expiry missing slash",
			mutate:   func(c CardDetails) CardDetails { c.Expiry = "1227"; return c },
			expected: false,
		},
		{
			name:     "expiry too short",
			mutate:   func(c CardDetails) CardDetails { c.Expiry = "1/27"; return c },
			expected: false,
		},
		{
			name:     "cvv too short",
			mutate:   func(c CardDetails) CardDetails { c.CVV = "12"; return c },
			expected: false,
		},
		{
			name:     "cvv too long",
			mutate:   func(c CardDetails) CardDetails { c.CVV = "1234"; return c },
			expected: false,
		},
		{
			name:     "blank holder name",
			mutate:   func(c CardDetails) CardDetails { c.HolderName = "   "; return c },
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := tt.mutate(valid)
			if result := card.Valid(); result != tt.expected {
				t.Errorf("Valid() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestNormalizeCardNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "spaces stripped",
			input:    "4111 1111 1111 1111",
			expected: "4111111111111111",
		},
		{
			name:     "dashes stripped",
			input:    "4111-1111-1111-1111",
			expected: "4111111111111111",
		},
		{
			name:     "capped at sixteen digits",
			input:    "41111111111111112222",
			expected: "4111111111111111",
		},
		{
			name:     "partial input kept as is",
			input:    "4111 11",
			expected: "411111",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := NormalizeCardNumber(tt.input); result != tt.expected {
				t.Errorf("NormalizeCardNumber(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFormatExpiry(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "two digits stay bare",
			input:    "12",
			expected: "12",
		},
		{
			name:     "third digit inserts slash",
			input:    "122",
			expected: "12/2",
		},
		{
			name:     "four digits full expiry",
			input:    "1227",
			expected: "12/27",
		},
		{
			name:     "existing slash preserved",
			input:    "12/27",
			expected: "12/27",
		},
		{
			name:     "extra digits dropped",
			input:    "122734",
			expected: "12/27",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := FormatExpiry(tt.input); result != tt.expected {
				t.Errorf("FormatExpiry(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

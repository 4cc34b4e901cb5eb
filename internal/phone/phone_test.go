package phone

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"eleven digits with mobile nine", "51999999999", "5551999999999"},
		{"ten digits gains mobile nine", "5199999999", "5551999999999"},
		{"already canonical", "5551999999999", "5551999999999"},
		{"formatted input", "(51) 99999-9999", "5551999999999"},
		{"plus and country code", "+55 51 99999-9999", "5551999999999"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.input)
			if err != nil {
				t.Fatalf("Normalize(%q) returned error: %v", tc.input, err)
			}
			if got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeRejectsInvalid(t *testing.T) {
	t.Parallel()

	for _, input := range []string{
		"123",
		"",
		"51899999999",     // eleven digits but third digit is not 9
		"555199999999999", // too long
		"05199999999",     // area code cannot start with 0
	} {
		if _, err := Normalize(input); !errors.Is(err, ErrInvalidNumber) {
			t.Fatalf("Normalize(%q): expected ErrInvalidNumber, got %v", input, err)
		}
	}
}

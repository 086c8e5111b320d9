package security

import (
	"strconv"
	"testing"
)

func TestGenerateVerificationCode(t *testing.T) {
	seen := make(map[string]struct{})

	for i := 0; i < 200; i++ {
		code, err := GenerateVerificationCode()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(code) != 6 {
			t.Fatalf("code %q has %d digits, want 6", code, len(code))
		}

		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("code %q is not numeric: %v", code, err)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("code %d out of range [100000, 999999]", n)
		}

		seen[code] = struct{}{}
	}

	// 200 draws from a 900k space collapsing to a handful of values would
	// indicate a broken randomness source.
	if len(seen) < 100 {
		t.Errorf("only %d distinct codes out of 200 draws", len(seen))
	}
}

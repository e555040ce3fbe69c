package verification

import "testing"

func TestGenerateCodeShape(t *testing.T) {
	for _, length := range []int{4, 6, 8} {
		code := GenerateCode(length)
		if len(code) != length {
			t.Fatalf("len(GenerateCode(%d)) = %d", length, len(code))
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Fatalf("non-digit %q in code %q", c, code)
			}
		}
	}
}

func TestGenerateCodeVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[GenerateCode(6)] = true
	}

	// 50 draws from a million-value space colliding down to a handful
	// would mean a broken generator.
	if len(seen) < 40 {
		t.Errorf("only %d distinct codes in 50 draws", len(seen))
	}
}

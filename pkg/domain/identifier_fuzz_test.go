package domain

import "testing"

// FuzzParseCPF verifies the parser never panics and that every accepted
// value is exactly 11 digits with matching check digits.
func FuzzParseCPF(f *testing.F) {
	f.Add("11144477735")
	f.Add("111.444.777-35")
	f.Add("11111111111")
	f.Add("")
	f.Add("not-a-cpf")
	f.Add("1234567890123456789012345678901234567890")

	f.Fuzz(func(t *testing.T, raw string) {
		id, err := ParseCPF(raw)
		if err != nil {
			if !id.IsZero() {
				t.Fatalf("rejected input produced non-zero identifier: %q", raw)
			}
			return
		}
		digits := id.Digits()
		if len(digits) != 11 {
			t.Fatalf("accepted cpf with %d digits: %q", len(digits), digits)
		}
		if cpfCheckDigit(digits, 9) != int(digits[9]-'0') || cpfCheckDigit(digits, 10) != int(digits[10]-'0') {
			t.Fatalf("accepted cpf with broken check digits: %q", digits)
		}
	})
}

// FuzzParseCNS verifies the parser never panics and that accepted values
// always satisfy the mod-11 weighted sum.
func FuzzParseCNS(f *testing.F) {
	f.Add("701234567890125")
	f.Add("701 2345 6789 0125")
	f.Add("000000000000000")
	f.Add("")

	f.Fuzz(func(t *testing.T, raw string) {
		id, err := ParseCNS(raw)
		if err != nil {
			return
		}
		digits := id.Digits()
		if len(digits) != 15 {
			t.Fatalf("accepted cns with %d digits: %q", len(digits), digits)
		}
		sum := 0
		for i := 0; i < 15; i++ {
			sum += int(digits[i]-'0') * (15 - i)
		}
		if sum%11 != 0 {
			t.Fatalf("accepted cns with broken checksum: %q", digits)
		}
	})
}

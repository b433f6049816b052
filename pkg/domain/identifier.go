package domain

import (
	"strings"

	dErrors "sigilo/pkg/domain-errors"
)

// IdentifierKind distinguishes the supported national identifier schemes.
type IdentifierKind string

const (
	// KindCPF is the Brazilian individual taxpayer registry number:
	// 11 digits, the last two being mod-11 check digits.
	KindCPF IdentifierKind = "cpf"

	// KindCNS is the Brazilian national health card number:
	// 15 digits with a positional mod-11 checksum.
	KindCNS IdentifierKind = "cns"
)

var validIdentifierKinds = map[IdentifierKind]bool{
	KindCPF: true,
	KindCNS: true,
}

// ParseIdentifierKind constructs an IdentifierKind from external input.
func ParseIdentifierKind(raw string) (IdentifierKind, error) {
	kind := IdentifierKind(strings.ToLower(strings.TrimSpace(raw)))
	if !validIdentifierKinds[kind] {
		return "", dErrors.New(dErrors.CodeValidation, "identifier kind must be cpf or cns")
	}
	return kind, nil
}

// NationalIdentifier is a validated CPF or CNS.
//
// Invariant: only constructible through ParseNationalIdentifier (or the
// kind-specific parsers), so holding a non-zero value proves the checksum
// passed. The raw digits are reachable only via Digits, which exists for
// repository queries; audit entries and logs must use Masked or a one-way
// hash instead.
type NationalIdentifier struct {
	kind   IdentifierKind
	digits string
}

// ParseNationalIdentifier validates raw input as the given kind.
func ParseNationalIdentifier(kind IdentifierKind, raw string) (NationalIdentifier, error) {
	switch kind {
	case KindCPF:
		return ParseCPF(raw)
	case KindCNS:
		return ParseCNS(raw)
	default:
		return NationalIdentifier{}, dErrors.New(dErrors.CodeValidation, "identifier kind must be cpf or cns")
	}
}

// ParseCPF validates a CPF. Formatting characters are stripped first, so
// "111.444.777-35" and "11144477735" are equivalent.
func ParseCPF(raw string) (NationalIdentifier, error) {
	digits := stripNonDigits(raw)
	if len(digits) != 11 {
		return NationalIdentifier{}, dErrors.New(dErrors.CodeInvalidIdentifier, "cpf must have 11 digits")
	}
	if allSameDigit(digits) {
		return NationalIdentifier{}, dErrors.New(dErrors.CodeInvalidIdentifier, "cpf digits must not all be identical")
	}
	if cpfCheckDigit(digits, 9) != int(digits[9]-'0') || cpfCheckDigit(digits, 10) != int(digits[10]-'0') {
		return NationalIdentifier{}, dErrors.New(dErrors.CodeInvalidIdentifier, "cpf check digits do not match")
	}
	return NationalIdentifier{kind: KindCPF, digits: digits}, nil
}

// cpfCheckDigit computes the check digit verified at position pos (9 or 10).
// The weighted sum runs over the preceding pos digits with descending weights
// starting at pos+1; (sum*10) mod 11 maps 10 to 0.
func cpfCheckDigit(digits string, pos int) int {
	sum := 0
	for i := 0; i < pos; i++ {
		sum += int(digits[i]-'0') * (pos + 1 - i)
	}
	digit := sum * 10 % 11
	if digit == 10 {
		digit = 0
	}
	return digit
}

// ParseCNS validates a CNS: 15 digits whose positional weighted sum
// (weights 15 down to 1) is a multiple of 11.
func ParseCNS(raw string) (NationalIdentifier, error) {
	digits := stripNonDigits(raw)
	if len(digits) != 15 {
		return NationalIdentifier{}, dErrors.New(dErrors.CodeInvalidIdentifier, "cns must have 15 digits")
	}
	sum := 0
	for i := 0; i < 15; i++ {
		sum += int(digits[i]-'0') * (15 - i)
	}
	if sum%11 != 0 {
		return NationalIdentifier{}, dErrors.New(dErrors.CodeInvalidIdentifier, "cns checksum does not match")
	}
	return NationalIdentifier{kind: KindCNS, digits: digits}, nil
}

// Kind returns the identifier scheme.
func (n NationalIdentifier) Kind() IdentifierKind { return n.kind }

// IsZero reports whether the identifier was never validated.
func (n NationalIdentifier) IsZero() bool { return n.digits == "" }

// Digits returns the validated digit string for repository queries.
func (n NationalIdentifier) Digits() string { return n.digits }

// Masked returns a display form that exposes only the trailing digits.
func (n NationalIdentifier) Masked() string {
	switch n.kind {
	case KindCPF:
		return "***.***.***-" + n.digits[9:]
	case KindCNS:
		return strings.Repeat("*", 11) + n.digits[11:]
	default:
		return ""
	}
}

// String returns the masked form. The raw digits never leak through
// accidental formatting.
func (n NationalIdentifier) String() string { return n.Masked() }

func stripNonDigits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func allSameDigit(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}

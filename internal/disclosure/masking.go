package disclosure

import "strings"

// MaskPhone formats a Brazilian phone for partially-trusted roles. The
// area code, first subscriber digit, and last four digits stay visible:
// "11912345678" becomes "(11) 9****-5678". Numbers with fewer than eight
// digits fall back to "****-" plus whatever trails.
func MaskPhone(phone string) string {
	digits := digitsOnly(phone)
	if digits == "" {
		return ""
	}
	if len(digits) < 8 {
		start := len(digits) - 4
		if start < 0 {
			start = 0
		}
		return "****-" + digits[start:]
	}

	area := digits[:2]
	first := digits[2:3]
	last := digits[len(digits)-4:]
	return "(" + area + ") " + first + "****-" + last
}

// MaskEmail hides the local part beyond its first two characters:
// "ana.souza@example.com" becomes "an***@example.com". Local parts of two
// characters or fewer keep all of them, followed by "**".
func MaskEmail(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return email
	}
	local, domain := email[:at], email[at+1:]
	if len(local) <= 2 {
		return local + "**@" + domain
	}
	return local[:2] + "***@" + domain
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

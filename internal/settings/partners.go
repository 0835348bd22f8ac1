package settings

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Partner is a staff member with their own login and commission share.
// The owner account ("master") is not a Partner; it has its own stored
// credentials and an implicit 100% commission.
type Partner struct {
	Name              string  `json:"name"`
	LoginHandle       string  `json:"loginHandle"`
	Password          string  `json:"password"`
	CommissionPercent float64 `json:"commissionPercent"`
}

// DeriveLoginHandle builds a partner's login from their display name:
// lowercase, diacritics stripped, whitespace removed. "José da Silva"
// becomes "josedasilva".
func DeriveLoginHandle(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, name)
	if err != nil {
		stripped = name
	}
	return strings.ToLower(strings.Join(strings.Fields(stripped), ""))
}

// NormalizePartner fills the derived login handle and clamps the commission
// into the 0-100 range.
func NormalizePartner(p Partner) Partner {
	p.LoginHandle = DeriveLoginHandle(p.Name)
	if p.CommissionPercent < 0 {
		p.CommissionPercent = 0
	}
	if p.CommissionPercent > 100 {
		p.CommissionPercent = 100
	}
	return p
}

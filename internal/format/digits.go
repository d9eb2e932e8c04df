// Package format holds the pure formatting helpers shared by every
// handler: Persian digit transliteration, thousands grouping, and the
// Jalali calendar math the rest of the app dates everything with.
package format

import (
	"math"
	"strconv"
	"strings"
)

var persianDigits = [...]rune{'۰', '۱', '۲', '۳', '۴', '۵', '۶', '۷', '۸', '۹'}

// arabicDigits are the Eastern-Arabic glyphs some devices type instead
// of the Persian set. They only matter on the way back to Latin.
var arabicDigits = [...]rune{'٠', '١', '٢', '٣', '٤', '٥', '٦', '٧', '٨', '٩'}

// ToPersianDigits replaces every Latin digit with its Persian glyph.
// Non-digit runes pass through untouched.
func ToPersianDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 2)
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(persianDigits[r-'0'])
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ToLatinDigits replaces Persian (and Eastern-Arabic) digit glyphs with
// Latin digits. Round-trips exactly with ToPersianDigits for
// digit-only strings.
func ToLatinDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '۰' && r <= '۹':
			b.WriteRune(rune('0' + int(r-'۰')))
		case r >= '٠' && r <= '٩':
			b.WriteRune(rune('0' + int(r-'٠')))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// GroupThousands strips everything that is not a digit from the input
// (after folding Persian glyphs to Latin) and groups the rest in threes:
// "1234567" -> "1,234,567". Formatting an already formatted value again
// yields the same string.
func GroupThousands(s string) string {
	digits := stripNonDigits(ToLatinDigits(s))
	if digits == "" {
		return ""
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatCurrency renders a money amount the way the panel displays it:
// grouped thousands in Persian glyphs. Grouping itself drops every
// non-digit, so the sign is carried around it.
func FormatCurrency(amount float64) string {
	n := int64(math.Round(amount))
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	grouped := GroupThousands(strconv.FormatInt(n, 10))
	return ToPersianDigits(sign + grouped)
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

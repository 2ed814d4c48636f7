package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ToInt converts loosely typed API values to int. Unparseable input yields 0.
func ToInt(val any) int {
	switch v := val.(type) {
	case nil:
		return 0
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case float64:
		return int(v)
	case float32:
		return int(v)
	case string:
		s := strings.TrimSpace(v)
		if i, err := strconv.Atoi(s); err == nil {
			return i
		}
		f, _ := strconv.ParseFloat(s, 64)
		return int(f)
	case []byte:
		return ToInt(string(v))
	default:
		return ToInt(fmt.Sprintf("%v", v))
	}
}

// ToString converts loosely typed API values to string. nil yields "".
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToBool converts various types to bool.
// It handles bool, numeric types (1=true), and strings ("1", "true", "sim").
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case int, int64, int32, float64:
		return ToInt(v) == 1
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		return s == "1" || s == "true" || s == "sim"
	case []byte:
		return ToBool(string(v))
	default:
		return false
	}
}

// DigitsOnly strips everything but ASCII digits, used for CPF/CNPJ and CEP.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FirstNonEmpty returns the first argument that is not blank.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// IsBlank reports whether s is empty or only whitespace.
func IsBlank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
}

// NormalizeDate converts the date formats seen on both APIs to YYYY-MM-DD.
// Values it cannot parse are returned trimmed but otherwise unchanged.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	if len(s) >= 10 && s[4] == '-' && s[7] == '-' {
		return s[:10]
	}
	return s
}

// FormatDuration renders elapsed time the way run summaries print it.
func FormatDuration(d time.Duration) string {
	secs := d.Seconds()
	switch {
	case secs < 60:
		return fmt.Sprintf("%.2f seconds", secs)
	case secs < 3600:
		return fmt.Sprintf("%.2f minutes", secs/60)
	default:
		return fmt.Sprintf("%.2f hours", secs/3600)
	}
}

package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FlexString decodes a JSON string or number into a string. The ERP returns
// identifiers as either depending on the endpoint.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("flex string: unsupported value %s", data)
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// Amount is a monetary or measurement value that may be absent. It accepts
// JSON numbers, numeric strings and Brazilian decimal commas ("12,50").
type Amount struct {
	Value decimal.Decimal
	Valid bool
}

// NewAmount returns a valid Amount.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Value: d, Valid: true}
}

// AmountFromFloat returns a valid Amount from a float.
func AmountFromFloat(f float64) Amount {
	return NewAmount(decimal.NewFromFloat(f))
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*a = Amount{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.Contains(raw, ",") {
		if strings.Contains(raw, ".") {
			raw = strings.ReplaceAll(raw, ".", "")
		}
		raw = strings.ReplaceAll(raw, ",", ".")
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	*a = NewAmount(d)
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return []byte(a.Value.String()), nil
}

// Float returns the value as float64 for outgoing payloads, 0 when absent.
func (a Amount) Float() float64 {
	if !a.Valid {
		return 0
	}
	return a.Value.InexactFloat64()
}

// Scale multiplies a valid amount by factor.
func (a Amount) Scale(factor int64) Amount {
	if !a.Valid {
		return a
	}
	return NewAmount(a.Value.Mul(decimal.NewFromInt(factor)))
}

// IsPositive reports whether the amount is present and greater than zero.
func (a Amount) IsPositive() bool {
	return a.Valid && a.Value.IsPositive()
}

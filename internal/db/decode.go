package db

import (
	"fmt"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/shopspring/decimal"

	"github.com/shopfloor/kpidash/pkg/core"
)

// timeLayouts are tried in order when a text column is decoded into time.Time.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

var (
	decimalType = reflect.TypeOf(decimal.Decimal{})
	timeType    = reflect.TypeOf(time.Time{})
)

// Decode copies a row into the struct pointed to by out using `db` tags.
// Values are converted loosely so SQLite integers decode into bools and
// PostgreSQL numerics into decimals.
func Decode(row core.Row, out any) error {
	if row == nil {
		return fmt.Errorf("cannot decode absent row")
	}
	return decode(map[string]any(row), out)
}

// DecodeAll copies rows into the slice pointed to by out.
func DecodeAll(rows []core.Row, out any) error {
	plain := make([]map[string]any, len(rows))
	for i, r := range rows {
		plain[i] = r
	}
	return decode(plain, out)
}

func decode(input, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "db",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			decimalHook,
			timeHook,
		),
	})
	if err != nil {
		return fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := dec.Decode(input); err != nil {
		return fmt.Errorf("failed to decode row: %w", err)
	}
	return nil
}

func decimalHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != decimalType {
		return data, nil
	}
	switch v := data.(type) {
	case decimal.Decimal:
		return v, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("invalid decimal %q: %w", v, err)
		}
		return d, nil
	case []byte:
		return decimal.NewFromString(string(v))
	}
	return data, nil
}

func timeHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != timeType {
		return data, nil
	}
	s, ok := data.(string)
	if !ok {
		return data, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("invalid timestamp %q", s)
}

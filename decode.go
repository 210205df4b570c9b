// File: lixenwraith/tagcli/decode.go
package tagcli

import (
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// decodeValue coerces a raw value (parsed flag text, a loaded paramfile
// entry, or an evaluated literal) onto target, which must be a non-nil
// pointer. Decoding is weakly typed so INI-sourced strings and json.Number
// values land on typed fields.
func decodeValue(value, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("decode target must be a non-nil pointer, got %T", target)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "cli",
		WeaklyTypedInput: true,
		DecodeHook:       decodeHook(),
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}
	return decoder.Decode(value)
}

// decodeHook returns the composite decode hook shared by every coercion
// site.
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
	)
}

// coerceTo converts value to type t, returning the converted value.
// Interface targets take the value unchanged.
func coerceTo(value any, t reflect.Type) (any, error) {
	if t.Kind() == reflect.Interface {
		return value, nil
	}
	target := reflect.New(t)
	if err := decodeValue(value, target.Interface()); err != nil {
		return nil, err
	}
	return target.Elem().Interface(), nil
}

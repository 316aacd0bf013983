package intake

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
)

// isTruthy 复刻表单端的真值判断：nil、false、0、NaN、空串为假。
func isTruthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return strings.TrimSpace(val) != ""
	case json.Number:
		f, err := val.Float64()
		return err != nil || (f != 0 && !math.IsNaN(f))
	case float64:
		return val != 0 && !math.IsNaN(val)
	case float32:
		return val != 0 && !math.IsNaN(float64(val))
	case int:
		return val != 0
	case int64:
		return val != 0
	case int32:
		return val != 0
	case uint:
		return val != 0
	case uint64:
		return val != 0
	default:
		return true
	}
}

// scalarString 将标量转换为去除首尾空白的字符串，非标量或假值返回空串。
func scalarString(v any) string {
	if !isTruthy(v) {
		return ""
	}
	switch v.(type) {
	case map[string]any, []any, []string:
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func optionalString(v any) *string {
	s := scalarString(v)
	if s == "" {
		return nil
	}
	return &s
}

func cleanOptional(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	return &s
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// coerceList 列表原样保留，标量包装为单元素列表，缺省为空列表；随后剔除假值。
func coerceList(v any) []string {
	var items []any
	switch val := v.(type) {
	case nil:
		return []string{}
	case []any:
		items = val
	case []string:
		items = make([]any, 0, len(val))
		for _, s := range val {
			items = append(items, s)
		}
	default:
		items = []any{val}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := scalarString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// coerceBool 只接受真实布尔值或字面量 "true"/"false"，其余一律为 false。
func coerceBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return strings.EqualFold(strings.TrimSpace(val), "true")
	default:
		return false
	}
}

// decodeEntries 将 []map 逐条弱类型解码为 T，无法解码的条目被丢弃。
func decodeEntries[T any](v any, prepare func(map[string]any)) []T {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if prepare != nil {
			m = copyMap(m)
			prepare(m)
		}
		var entry T
		if err := decodeMap(m, &entry); err != nil {
			continue
		}
		out = append(out, entry)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func decodeMap(input map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

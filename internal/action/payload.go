package action

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Payload 是表单提交解码后的无类型结构，字段含义由 tag 决定。
type Payload map[string]any

// String 读取字符串字段，缺失或类型不符时返回空串。
func (p Payload) String(key string) string {
	switch v := p[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// Int 读取整数字段（区块高度、时间戳），JSON 数字默认解码为 float64。
func (p Payload) Int(key string) int64 {
	switch v := p[key].(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0
		}
		return n
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// Strings 读取数组字段，每个元素按原值转成字符串，不丢弃任何元素。
func (p Payload) Strings(key string) []string {
	switch v := p[key].(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, len(v))
		for i, item := range v {
			out[i] = stringify(item)
		}
		return out
	default:
		return []string{}
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// Object 读取嵌套对象，仅做存在性检查。
func (p Payload) Object(key string) (Payload, bool) {
	switch v := p[key].(type) {
	case map[string]any:
		return Payload(v), true
	case Payload:
		return v, true
	default:
		return nil, false
	}
}

// JSON 将整个 payload 序列化为字符串。
func (p Payload) JSON() (string, error) {
	raw, err := json.Marshal(map[string]any(p))
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	return string(raw), nil
}

// Plugins 解析 metadata.plugins：非空对象原样序列化，否则序列化空对象。
func Plugins(p Payload) (string, error) {
	plugins := map[string]any{}
	if metadata, ok := p.Object("metadata"); ok {
		if nested, ok := metadata.Object("plugins"); ok && len(nested) > 0 {
			plugins = nested
		}
	}
	raw, err := json.Marshal(plugins)
	if err != nil {
		return "", fmt.Errorf("encode plugins: %w", err)
	}
	return string(raw), nil
}

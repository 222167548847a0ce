package models

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// protectedAttrs are never changed by attribute updates.
var protectedAttrs = []string{"id", "created_at", "updated_at"}

// IsProtected reports whether name is one of id, created_at, updated_at.
func IsProtected(name string) bool {
	return slices.Contains(protectedAttrs, name)
}

type attrHook interface {
	beforeSet(name string, value any) (any, error)
}

// SetAttr sets a single attribute. Declared fields are coerced to their Go
// type; unknown names are stored in Extra.
func SetAttr(m Model, name string, value any) error {
	if name == "" || name == "__class__" {
		return fmt.Errorf("attribute %q: %w", name, ErrInvalidValue)
	}
	return decode(m, map[string]any{name: value})
}

// SetAttrs sets every attribute of values except the protected ones and
// those listed in ignore.
func SetAttrs(m Model, values map[string]any, ignore ...string) error {
	filtered := make(map[string]any, len(values))
	for k, v := range values {
		if IsProtected(k) || k == "__class__" || slices.Contains(ignore, k) {
			continue
		}
		filtered[k] = v
	}
	return decode(m, filtered)
}

// Attr returns the current value of an attribute.
func Attr(m Model, name string) (any, bool) {
	v, ok := ToMap(m)[name]
	return v, ok
}

func decode(m Model, values map[string]any) error {
	declared := m.attrs()
	known := make(map[string]any, len(values))
	b := m.Meta()
	for name, value := range values {
		if h, ok := m.(attrHook); ok {
			v, err := h.beforeSet(name, value)
			if err != nil {
				return err
			}
			value = v
		}
		if _, ok := declared[name]; ok || IsProtected(name) {
			known[name] = value
			continue
		}
		if b.Extra == nil {
			b.Extra = make(map[string]any)
		}
		b.Extra[name] = normalizeNumber(value)
	}
	if len(known) == 0 {
		return nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(stringToTimeHook, floatToIntHook),
		WeaklyTypedInput: true,
		Result:           m,
		TagName:          "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := dec.Decode(known); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidValue, err)
	}
	return nil
}

var timeLayouts = []string{TimeFormat, "2006-01-02T15:04:05", time.RFC3339Nano}

func stringToTimeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(time.Time{}) {
		return data, nil
	}
	s := data.(string)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized time %q", s)
}

// floatToIntHook refuses to truncate a fractional float into an int field.
func floatToIntHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	switch from.Kind() {
	case reflect.Float32, reflect.Float64:
	default:
		return data, nil
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return data, nil
	}
	f := reflect.ValueOf(data).Float()
	if f != math.Trunc(f) {
		return nil, fmt.Errorf("%v is not an integer", data)
	}
	return data, nil
}

// normalizeNumber turns json.Number into int64 or float64 so that values
// read back from storage keep their original kind.
func normalizeNumber(v any) any {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return f
		}
		return n.String()
	case []any:
		out := make([]any, len(n))
		for i, e := range n {
			out[i] = normalizeNumber(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, e := range n {
			out[k] = normalizeNumber(e)
		}
		return out
	}
	return v
}

// ToMap returns every attribute of m plus "__class__", with timestamps
// formatted using TimeFormat.
func ToMap(m Model) map[string]any {
	b := m.Meta()
	out := make(map[string]any, len(b.Extra)+8)
	for k, v := range b.Extra {
		out[k] = v
	}
	for k, v := range m.attrs() {
		out[k] = v
	}
	out["id"] = b.ID
	out["created_at"] = b.CreatedAt.Format(TimeFormat)
	out["updated_at"] = b.UpdatedAt.Format(TimeFormat)
	out["__class__"] = m.ClassName()
	return out
}

// PublicMap is ToMap without secrets, for API responses.
func PublicMap(m Model) map[string]any {
	out := ToMap(m)
	delete(out, "password")
	return out
}

// String renders m as "[<Class>] (<id>) {<attributes>}".
func String(m Model) string {
	attrs := ToMap(m)
	delete(attrs, "__class__")

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		if !IsProtected(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	keys = append([]string{"id", "created_at", "updated_at"}, keys...)

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] (%s) {", m.ClassName(), m.Meta().ID)
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(pyRepr(k))
		sb.WriteString(": ")
		sb.WriteString(pyRepr(attrs[k]))
	}
	sb.WriteString("}")
	return sb.String()
}

// pyRepr formats values the way the shell has always displayed them:
// single-quoted strings, True/False, None.
func pyRepr(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case string:
		return "'" + strings.ReplaceAll(strings.ReplaceAll(x, `\`, `\\`), "'", `\'`) + "'"
	case bool:
		if x {
			return "True"
		}
		return "False"
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		s := strconv.FormatFloat(x, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	case []string:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = pyRepr(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = pyRepr(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = pyRepr(k) + ": " + pyRepr(x[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprint(x)
	}
}

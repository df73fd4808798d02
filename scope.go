package scopedlog

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
)

// Category names the subsystem a logger writes for.
type Category string

// CategoryOf returns the category for type T, e.g. "scopedlog.Service".
func CategoryOf[T any]() Category {
	return categoryFromType(reflect.TypeFor[T]())
}

// CategoryFor returns the category of v's dynamic type. Pointers are
// dereferenced so *Foo and Foo share a category.
func CategoryFor(v any) Category {
	if v == nil {
		return emptyString
	}
	return categoryFromType(reflect.TypeOf(v))
}

func categoryFromType(t reflect.Type) Category {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return Category(t.String())
}

// EventID optionally identifies the kind of event being logged.
type EventID struct {
	ID   int
	Name string
}

// IsZero reports whether no event id was supplied.
func (e EventID) IsZero() bool {
	return e.ID == 0 && e.Name == emptyString
}

// Formatter renders a log state and error into the entry message.
type Formatter func(state any, err error) string

// MessageFormatter renders state with fmt.Sprint and ignores the error,
// which is logged as a separate field.
func MessageFormatter(state any, _ error) string {
	return fmt.Sprint(state)
}

// Field is one key/value pair of a scope.
type Field struct {
	Key   string
	Value any
}

// Scope is structured scope state: ordered fields plus a message template
// whose {key} placeholders are replaced by the field values.
type Scope struct {
	Template string
	Fields   []Field
}

// String renders the template. Nil values render as "(null)".
func (s Scope) String() string {
	if s.Template == emptyString {
		return emptyString
	}
	pairs := make([]string, 0, len(s.Fields)*2)
	for _, f := range s.Fields {
		pairs = append(pairs, "{"+f.Key+"}", renderValue(f.Value))
	}
	return strings.NewReplacer(pairs...).Replace(s.Template)
}

func renderValue(v any) string {
	if v == nil {
		return "(null)"
	}
	return fmt.Sprint(v)
}

// scopeFields normalizes arbitrary BeginScope state into fields and a
// rendered description.
func scopeFields(state any) ([]Field, string) {
	switch s := state.(type) {
	case nil:
		return nil, emptyString
	case Scope:
		return s.Fields, s.String()
	case *Scope:
		if s == nil {
			return nil, emptyString
		}
		return s.Fields, s.String()
	case Field:
		return []Field{s}, emptyString
	case []Field:
		return s, emptyString
	case map[string]any:
		fields := make([]Field, 0, len(s))
		for _, k := range slices.Sorted(maps.Keys(s)) {
			fields = append(fields, Field{Key: k, Value: s[k]})
		}
		return fields, emptyString
	case map[string]string:
		fields := make([]Field, 0, len(s))
		for _, k := range slices.Sorted(maps.Keys(s)) {
			fields = append(fields, Field{Key: k, Value: s[k]})
		}
		return fields, emptyString
	case string:
		return nil, s
	default:
		return nil, fmt.Sprint(s)
	}
}

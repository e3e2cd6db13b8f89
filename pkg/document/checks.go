package document

import (
	"regexp"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// CheckFunc validates a single field of a document. Checks are gates: the
// first failure aborts the verification pass that invoked them.
type CheckFunc func(d *Document, key string) error

// String checks that the field is a string of at most maxLen runes.
// When allowEmpty is false an empty string is rejected. maxLen <= 0 means
// unbounded.
func String(maxLen int, allowEmpty bool) CheckFunc {
	return func(d *Document, key string) error {
		s, ok := d.String(key)
		if !ok {
			return fieldErr(key, "missing or not a string")
		}
		if !allowEmpty && s == "" {
			return fieldErr(key, "must not be empty")
		}
		if maxLen > 0 && utf8.RuneCountInString(s) > maxLen {
			return fieldErr(key, "longer than %d characters", maxLen)
		}
		return nil
	}
}

// StringPattern checks that the field is a non-empty string of at most
// maxLen runes matching pattern.
func StringPattern(pattern *regexp.Regexp, maxLen int) CheckFunc {
	return func(d *Document, key string) error {
		if err := String(maxLen, false)(d, key); err != nil {
			return err
		}
		s, _ := d.String(key)
		if !pattern.MatchString(s) {
			return fieldErr(key, "does not match %s", pattern.String())
		}
		return nil
	}
}

// Int checks that the field is a strict integer in [min, max]. A real
// number with a fractional part is rejected.
func Int(min, max int64) CheckFunc {
	return func(d *Document, key string) error {
		v, ok := d.Get(key)
		if !ok {
			return fieldErr(key, "missing")
		}
		n, ok := intValue(v)
		if !ok {
			return fieldErr(key, "not an integer")
		}
		if n < min || n > max {
			return fieldErr(key, "out of range [%d, %d]", min, max)
		}
		return nil
	}
}

// Number checks that the field is numeric — integer or real — in
// [min, max]. The dual acceptance is deliberate: upstream producers are
// inconsistent about whether ratio fields arrive as integers or reals.
func Number(min, max float64) CheckFunc {
	return func(d *Document, key string) error {
		v, ok := d.Get(key)
		if !ok {
			return fieldErr(key, "missing")
		}
		f, ok := floatValue(v)
		if !ok {
			return fieldErr(key, "not a number")
		}
		if f < min || f > max {
			return fieldErr(key, "out of range [%g, %g]", min, max)
		}
		return nil
	}
}

// uuidPattern is the 8-4-4-4-12 hex form. Format only; existence is the
// caller's concern.
var uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// UUID checks that the field is a UUID in 8-4-4-4-12 form. When allowEmpty
// is true an empty string passes (an unpersisted seq).
func UUID(allowEmpty bool) CheckFunc {
	return func(d *Document, key string) error {
		s, ok := d.String(key)
		if !ok {
			return fieldErr(key, "missing or not a string")
		}
		if s == "" {
			if allowEmpty {
				return nil
			}
			return fieldErr(key, "must not be empty")
		}
		if !uuidPattern.MatchString(s) {
			return fieldErr(key, "not a UUID")
		}
		return nil
	}
}

// IsUUID reports whether s is a UUID in 8-4-4-4-12 form.
func IsUUID(s string) bool {
	return uuidPattern.MatchString(s)
}

// Enum checks that the field is one of a closed set of string values.
func Enum(values ...string) CheckFunc {
	allowed := make(map[string]struct{}, len(values))
	for _, v := range values {
		allowed[v] = struct{}{}
	}
	return func(d *Document, key string) error {
		s, ok := d.String(key)
		if !ok {
			return fieldErr(key, "missing or not a string")
		}
		if _, ok := allowed[s]; !ok {
			return fieldErr(key, "must be one of %v", values)
		}
		return nil
	}
}

// Bool checks that the field is a boolean.
func Bool() CheckFunc {
	return func(d *Document, key string) error {
		v, ok := d.Get(key)
		if !ok {
			return fieldErr(key, "missing")
		}
		if _, ok := v.(bool); !ok {
			return fieldErr(key, "not a boolean")
		}
		return nil
	}
}

// YAMLContent checks that the field is a string of at most maxLen runes
// that parses as YAML. Used for embedded expression fields such as routing
// conditions; empty content is allowed.
func YAMLContent(maxLen int) CheckFunc {
	return func(d *Document, key string) error {
		if err := String(maxLen, true)(d, key); err != nil {
			return err
		}
		s, _ := d.String(key)
		if s == "" {
			return nil
		}
		var out any
		if err := yaml.Unmarshal([]byte(s), &out); err != nil {
			return fieldErr(key, "not valid YAML: %v", err)
		}
		return nil
	}
}

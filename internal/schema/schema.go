package schema

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrValueType is returned when a value's Go type does not match the field kind.
var ErrValueType = errors.New("value type does not match field kind")

// Field is one named, typed entry of the fixed schema.
type Field struct {
	Name string
	Kind Kind
}

// Configuration holds the current value of every schema field.
type Configuration struct {
	OrdersPerHour      Optional[int]
	OrderLinesPerOrder Optional[int]
	InboundStrategy    Optional[InboundStrategy]
	PowerSupply        Optional[PowerSupply]
	ResultStartTime    Optional[time.Duration]
	ResultInterval     Optional[int]
	NumberOfAisles     Optional[int]
}

type binding struct {
	field Field
	set   func(*Configuration, any) bool
	get   func(*Configuration) (any, bool)
}

func bind[T any](name string, kind Kind, slot func(*Configuration) *Optional[T]) binding {
	return binding{
		field: Field{Name: name, Kind: kind},
		set: func(c *Configuration, v any) bool {
			typed, ok := v.(T)
			if !ok {
				return false
			}
			*slot(c) = Some(typed)
			return true
		},
		get: func(c *Configuration) (any, bool) {
			v, ok := slot(c).Get()
			return v, ok
		},
	}
}

// bindings is ordered; the print-all pass follows this order.
var bindings = []binding{
	bind("OrdersPerHour", KindInteger, func(c *Configuration) *Optional[int] { return &c.OrdersPerHour }),
	bind("OrderLinesPerOrder", KindInteger, func(c *Configuration) *Optional[int] { return &c.OrderLinesPerOrder }),
	bind("InboundStrategy", KindInboundStrategy, func(c *Configuration) *Optional[InboundStrategy] { return &c.InboundStrategy }),
	bind("PowerSupply", KindPowerSupply, func(c *Configuration) *Optional[PowerSupply] { return &c.PowerSupply }),
	bind("ResultStartTime", KindDuration, func(c *Configuration) *Optional[time.Duration] { return &c.ResultStartTime }),
	bind("ResultInterval", KindInteger, func(c *Configuration) *Optional[int] { return &c.ResultInterval }),
	bind("NumberOfAisles", KindInteger, func(c *Configuration) *Optional[int] { return &c.NumberOfAisles }),
}

var byLowerName = func() map[string]*binding {
	m := make(map[string]*binding, len(bindings))
	for i := range bindings {
		key := strings.ToLower(bindings[i].field.Name)
		if _, dup := m[key]; dup {
			panic(fmt.Sprintf("schema: duplicate field name %q", bindings[i].field.Name))
		}
		m[key] = &bindings[i]
	}
	return m
}()

// Fields returns the schema in its fixed order.
func Fields() []Field {
	out := make([]Field, len(bindings))
	for i, b := range bindings {
		out[i] = b.field
	}
	return out
}

// Lookup resolves name case-insensitively to its canonical field.
func Lookup(name string) (Field, bool) {
	b, ok := byLowerName[strings.ToLower(name)]
	if !ok {
		return Field{}, false
	}
	return b.field, true
}

// FieldByName resolves name only when it matches the canonical name exactly.
func FieldByName(name string) (Field, bool) {
	f, ok := Lookup(name)
	if !ok || f.Name != name {
		return Field{}, false
	}
	return f, true
}

// Assign stores v in the slot for field f. The value must carry the Go type
// associated with the field kind.
func (c *Configuration) Assign(f Field, v any) error {
	b, ok := byLowerName[strings.ToLower(f.Name)]
	if !ok {
		return fmt.Errorf("assign %q: unknown field", f.Name)
	}
	if !b.set(c, v) {
		return fmt.Errorf("assign %s (%s) from %T: %w", b.field.Name, b.field.Kind, v, ErrValueType)
	}
	return nil
}

// Value returns the current value of field f and whether it is set.
func (c *Configuration) Value(f Field) (any, bool) {
	b, ok := byLowerName[strings.ToLower(f.Name)]
	if !ok {
		return nil, false
	}
	return b.get(c)
}

// FormatValue renders v the way it is printed to the console.
func FormatValue(f Field, v any) (string, error) {
	switch f.Kind {
	case KindInteger:
		if n, ok := v.(int); ok {
			return fmt.Sprintf("%d", n), nil
		}
	case KindDuration:
		if d, ok := v.(time.Duration); ok {
			return FormatDuration(d), nil
		}
	case KindInboundStrategy:
		if s, ok := v.(InboundStrategy); ok {
			return s.String(), nil
		}
	case KindPowerSupply:
		if p, ok := v.(PowerSupply); ok {
			return p.String(), nil
		}
	}
	return "", fmt.Errorf("format %s (%s) from %T: %w", f.Name, f.Kind, v, ErrValueType)
}

// FormatDuration renders d in clock style: [-][d.]hh:mm:ss[.fffffff].
func FormatDuration(d time.Duration) string {
	var b strings.Builder
	mag := uint64(d)
	if d < 0 {
		b.WriteByte('-')
		mag = uint64(-(d + 1)) + 1
	}

	const tick = uint64(100 * time.Nanosecond)
	ticks := mag / tick
	frac := ticks % 10_000_000
	secs := ticks / 10_000_000

	days := secs / 86400
	secs %= 86400
	if days > 0 {
		fmt.Fprintf(&b, "%d.", days)
	}
	fmt.Fprintf(&b, "%02d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
	if frac > 0 {
		fmt.Fprintf(&b, ".%07d", frac)
	}
	return b.String()
}

package schema

import "fmt"

// Kind is the semantic type of a configuration field.
type Kind int

const (
	KindInteger Kind = iota + 1
	KindDuration
	KindInboundStrategy
	KindPowerSupply
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindDuration:
		return "duration"
	case KindInboundStrategy:
		return "InboundStrategy"
	case KindPowerSupply:
		return "PowerSupply"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// InboundStrategy selects how inbound goods are placed in the warehouse.
type InboundStrategy int

const (
	InboundNone InboundStrategy = iota
	InboundRandom
	InboundOptimized
)

var inboundStrategyNames = []string{"none", "random", "optimized"}

func (s InboundStrategy) String() string {
	if s < 0 || int(s) >= len(inboundStrategyNames) {
		return fmt.Sprintf("InboundStrategy(%d)", int(s))
	}
	return inboundStrategyNames[s]
}

// ParseInboundStrategy matches text case-sensitively against the variant names.
func ParseInboundStrategy(text string) (InboundStrategy, bool) {
	for i, name := range inboundStrategyNames {
		if name == text {
			return InboundStrategy(i), true
		}
	}
	return 0, false
}

// PowerSupply describes the capacity of the warehouse power supply.
type PowerSupply int

const (
	PowerNone PowerSupply = iota
	PowerNormal
	PowerBig
)

var powerSupplyNames = []string{"none", "normal", "big"}

func (p PowerSupply) String() string {
	if p < 0 || int(p) >= len(powerSupplyNames) {
		return fmt.Sprintf("PowerSupply(%d)", int(p))
	}
	return powerSupplyNames[p]
}

// ParsePowerSupply matches text case-sensitively against the variant names.
func ParsePowerSupply(text string) (PowerSupply, bool) {
	for i, name := range powerSupplyNames {
		if name == text {
			return PowerSupply(i), true
		}
	}
	return 0, false
}

// Variants returns the declared variant names of an enumeration kind, or nil
// for non-enumeration kinds.
func Variants(kind Kind) []string {
	switch kind {
	case KindInboundStrategy:
		return append([]string(nil), inboundStrategyNames...)
	case KindPowerSupply:
		return append([]string(nil), powerSupplyNames...)
	default:
		return nil
	}
}

// Optional holds a value that is either set or unset. The zero Optional is
// unset, which keeps a legitimately zero value distinguishable from absence.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// Get returns the value and whether it has been set.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether a value has been assigned.
func (o Optional[T]) IsSet() bool {
	return o.set
}

package codec

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// TrueSentinel is the stored form of true.
	TrueSentinel = "\x01"
	// FalseSentinel is the stored form of false.
	FalseSentinel = "\x02"
)

// Codec encodes leaf values for storage. The zero value has no registry and
// rejects deferred values.
type Codec struct {
	registry *Registry
}

// New returns a codec resolving deferred values against registry.
func New(registry *Registry) *Codec {
	return &Codec{registry: registry}
}

// Registry returns the registry deferred names are resolved against.
func (c *Codec) Registry() *Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Encode returns the stored text for value and whether it is deferred.
func (c *Codec) Encode(value any) (string, bool, error) {
	switch v := value.(type) {
	case Deferred:
		name := strings.TrimSpace(string(v))
		if !c.Registry().Has(name) {
			return "", false, fmt.Errorf("%w: %q", ErrUnknownDeferred, name)
		}
		return name, true, nil
	case Proc, func():
		return "", false, fmt.Errorf("%w: register callbacks and store codec.Deferred names", ErrUnencodable)
	case bool:
		if v {
			return TrueSentinel, false, nil
		}
		return FalseSentinel, false, nil
	}

	out, err := yaml.Marshal(value)
	if err != nil {
		return "", false, fmt.Errorf("%w: %T: %v", ErrUnencodable, value, err)
	}
	return strings.TrimSuffix(string(out), "\n"), false, nil
}

// Decode turns stored text back into a value. Deferred records resolve to the
// registered Proc.
func (c *Codec) Decode(stored string, deferred bool) (any, error) {
	if deferred {
		return c.Registry().Resolve(stored)
	}

	// yaml.v3 rejects bare control characters, so sentinels are matched first.
	switch stored {
	case TrueSentinel:
		return true, nil
	case FalseSentinel:
		return false, nil
	}

	var value any
	if err := yaml.Unmarshal([]byte(stored), &value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedValue, err)
	}

	if s, ok := value.(string); ok {
		switch s {
		case TrueSentinel:
			return true, nil
		case FalseSentinel:
			return false, nil
		}
	}
	return value, nil
}

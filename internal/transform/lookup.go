package transform

// Lookup is one extraction strategy. ok reports whether it found a value.
type Lookup[T any] func() (v T, ok bool)

// FirstOf runs lookups in order and returns the first value found.
func FirstOf[T any](lookups ...Lookup[T]) (T, bool) {
	for _, l := range lookups {
		if v, ok := l(); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// present adapts a pointer into a Lookup that succeeds when it is non-nil.
func present[T any](p func() *T) Lookup[*T] {
	return func() (*T, bool) {
		v := p()
		return v, v != nil
	}
}

func stringOr(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}

func intOr(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}

func boolOr(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}

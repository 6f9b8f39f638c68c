package fallbackcache

// coalesce returns def when v is the zero value of T (nil for interfaces).
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

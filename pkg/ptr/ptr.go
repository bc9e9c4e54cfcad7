package ptr

// Ptr returns a pointer to the given value.
// Useful for filling optional fields in request/filter structs.
func Ptr[T any](v T) *T {
	return &v
}

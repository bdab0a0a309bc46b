package domain

// Result carries either a value or an error, never both.
type Result[T any] struct {
	value T
	err   error
}

// Success wraps a value.
func Success[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Failure wraps an error. A nil err is still reported as a failure.
func Failure[T any](err error) Result[T] {
	if err == nil {
		err = ErrFetchFailed
	}
	return Result[T]{err: err}
}

// IsSuccess reports whether the result holds a value.
func (r Result[T]) IsSuccess() bool {
	return r.err == nil
}

// Unwrap returns the value and the error.
func (r Result[T]) Unwrap() (T, error) {
	return r.value, r.err
}

// Err returns the failure, or nil on success.
func (r Result[T]) Err() error {
	return r.err
}

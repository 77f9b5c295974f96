// ABOUTME: Success-or-failure value returned by every gateway call
// ABOUTME: Keeps expected network failures out of Go's error-return control flow at call sites

package remote

// Result is the outcome of one gateway call.
type Result[T any] struct {
	Data T
	Err  error
}

// OK reports whether the call succeeded.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

func success[T any](v T) Result[T] {
	return Result[T]{Data: v}
}

func failure[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

func wrap[T any](v T, err error) Result[T] {
	if err != nil {
		return failure[T](err)
	}
	return success(v)
}

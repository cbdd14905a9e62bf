// Package results provides the success/failure envelope returned by service
// operations. A failure is a domain outcome (the request was understood and
// rejected); infrastructure errors travel separately as a plain error.
package results

// OperationResult carries either a success payload or a failure payload.
// The zero value is neither.
type OperationResult[S any, F any] struct {
	Success *S
	Failure *F
}

// SuccessResult wraps a success payload.
func SuccessResult[S any, F any](success S) OperationResult[S, F] {
	return OperationResult[S, F]{Success: &success}
}

// FailureResult wraps a failure payload.
func FailureResult[S any, F any](failure F) OperationResult[S, F] {
	return OperationResult[S, F]{Failure: &failure}
}

// IsSuccess reports whether a success payload is present.
func (r OperationResult[S, F]) IsSuccess() bool {
	return r.Success != nil
}

// IsFailure reports whether a failure payload is present.
func (r OperationResult[S, F]) IsFailure() bool {
	return r.Failure != nil
}

// Map converts the success payload, leaving a failure untouched.
func Map[S any, T any, F any](r OperationResult[S, F], fn func(S) T) OperationResult[T, F] {
	switch {
	case r.Success != nil:
		return SuccessResult[T, F](fn(*r.Success))
	case r.Failure != nil:
		return FailureResult[T, F](*r.Failure)
	default:
		return OperationResult[T, F]{}
	}
}

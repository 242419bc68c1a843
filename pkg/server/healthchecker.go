package server

import "context"

type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

// HealthCheckerFunc adapts a function to HealthChecker.
type HealthCheckerFunc func(ctx context.Context) bool

func (f HealthCheckerFunc) Healthy(ctx context.Context) bool { return f(ctx) }

// OkHealthChecker is always healthy; used when nothing external is attached.
type OkHealthChecker struct{}

func NewOkHealthChecker() *OkHealthChecker {
	return &OkHealthChecker{}
}

func (hc *OkHealthChecker) Healthy(context.Context) bool {
	return true
}

// All is healthy when every checker is. Checks stop at the first failure.
func All(checkers ...HealthChecker) HealthChecker {
	return HealthCheckerFunc(func(ctx context.Context) bool {
		for _, c := range checkers {
			if c != nil && !c.Healthy(ctx) {
				return false
			}
		}
		return true
	})
}

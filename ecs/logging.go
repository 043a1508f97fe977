package ecs

import "go.uber.org/zap"

// NewProductionLogger builds the *zap.Logger this package's World accepts
// through WithLogger, matching the construction idiom used throughout
// _examples/rdtc8822-debug-L1JGO-Whale (e.g. its cmd/l1jgo/main.go sets up
// zap once at process start and threads it down through constructors).
func NewProductionLogger() (*zap.Logger, error) {
	return zap.NewProduction()
}

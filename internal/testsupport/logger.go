// Package testsupport holds small fixtures shared by this module's
// test files: a no-op logger satisfying `pkg/logger.Logger` and a
// deterministic id generator, so package tests don't each redeclare
// them.
package testsupport

import (
	"strconv"

	"warbots/pkg/logger"
)

// NopLogger discards every trace; test files that need a
// logger.Logger but don't care about its output pass this.
type NopLogger struct{}

func (NopLogger) Trace(level logger.Severity, module string, message string) {}

// SequentialIDs returns an IDGenerator-compatible closure that hands
// out "id-1", "id-2", ... in call order, keeping fixture data
// readable in test failures without needing real uuids.
func SequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return "id-" + strconv.Itoa(n)
	}
}

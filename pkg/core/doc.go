// Package core defines the shared language of the kpidash data layer.
//
// This package contains:
//   - Result shapes returned by every backend (Row, Result)
//   - Connection configuration (AdapterConfig)
//   - Dialect identifiers and placeholder styles
//
// The Golden Rule: pkg/core imports ONLY the standard library.
// All other packages depend on core, not the reverse.
package core

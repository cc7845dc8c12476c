// Package shared holds helpers used by more than one package.
//
// The testutil subpackage provides a capturing slog handler and movie
// dataset fixtures for tests. Nothing here may import other internal
// packages.
package shared

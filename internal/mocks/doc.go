// Package mocks holds testify mocks generated by mockery from .mockery.yaml
// at the repository root. Regenerate with `mockery` after changing any of
// the listed interfaces.
package mocks

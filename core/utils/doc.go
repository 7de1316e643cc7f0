// Package utils provides common utility functions shared across the
// application, currently type conversion helpers that do not fit into
// domain-specific packages.
package utils

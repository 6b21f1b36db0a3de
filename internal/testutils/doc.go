// Package testutils holds helpers shared by tests in several packages.
package testutils

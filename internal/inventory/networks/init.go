// Package networks registers the TDM and FTTH network definitions with the
// inventory registry. Import it for side effects.
package networks

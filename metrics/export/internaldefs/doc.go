// Package internaldefs holds the shared metric name table for the
// exposition adapters. It exists so the Prometheus and OTel exporters
// render identical names without importing each other.
package internaldefs

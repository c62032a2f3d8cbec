// Package connectors provides implementations of the DocumentSource
// interface. Each connector knows how to fetch documents from a specific
// source; the wiki connector is the primary one.
package connectors

// Package mock provides test doubles for the ai package interfaces.
// The mocks produce deterministic embeddings by default and support
// behavior injection via function fields.
package mock

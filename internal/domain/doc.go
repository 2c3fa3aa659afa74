// Package domain defines the core types moved through the graphfeed
// pipeline: nodes read from the roster sheet and the sparse edges
// derived from the adjacency matrix.
//
// These are pure value types with no I/O or database dependencies.
// Validation of raw spreadsheet input lives in internal/transform;
// persistence lives in internal/repository.
package domain

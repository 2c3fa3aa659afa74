// Package transform converts raw spreadsheet rows into validated
// domain records: the node roster sheet into a node table, and the
// dense adjacency matrix sheet into a sparse, deterministically ordered
// edge list.
//
// Both entry points are pure functions of their inputs. They perform no
// I/O and run entirely before any database write, so a transform
// failure can never leave a partial load behind.
package transform

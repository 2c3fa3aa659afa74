// Package repository defines the destination-store contract for
// graphfeed.
//
// The Loader interface is the load stage of the pipeline: a full
// replace of the node and edge tables, one transaction per table, so a
// rerun is always idempotent and a failure never leaves a table
// half-old/half-new. The sqldb subpackage implements it on database/sql
// and works against both SQLite and MySQL.
package repository

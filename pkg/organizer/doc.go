// Package organizer runs one pass over a directory: every regular file
// directly inside the root is classified, given a date, and moved into the
// matching YYYY-MM-DD directory.
//
// Files are handled one at a time and independently. A failure on one file
// is logged and counted, never fatal; only failing to list the root stops a
// run.
package organizer

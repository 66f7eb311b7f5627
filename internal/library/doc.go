// Package library discovers Matroska containers under a directory tree.
//
// Discovery goes through an afero filesystem so tests can run against an
// in-memory tree. Matches are returned in natural order ("ep2" before
// "ep10"), which is the order batch runs process and report them.
package library

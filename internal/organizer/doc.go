// Package organizer redistributes labeled files into one directory per label.
//
// Organize walks an annotation document in order and copies or moves each
// referenced file from the source directory into <dest>/<label>/. Preflight
// checks run first; per-file failures are collected into a Report and, by
// default, do not stop the batch. Nothing is rolled back.
package organizer

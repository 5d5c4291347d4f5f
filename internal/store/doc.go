// Package store persists annotation lists as a single JSON document:
//
//	{"annotations": {"<item key>": <label>, ...}}
//
// Saving collapses the in-memory list to a mapping: the last label written
// for a key wins, and keys keep the order in which they were first recorded.
// Each save overwrites the whole file in place. A lock file next to the
// document keeps two annotation sessions from writing the same path.
package store

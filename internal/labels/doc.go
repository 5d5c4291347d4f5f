// Package labels describes what an annotator may answer for an item.
//
// A Config is one of three variants: enumerated (a fixed ordered set of string
// labels), ranged (a numeric interval, integer or real, with an optional step)
// or freeform (unconstrained text). Configs decide which interaction
// affordance the UI offers; Value carries the submitted answer and knows how
// to encode itself in the annotation document and as a directory name.
package labels

// Package textutil provides the string helpers labeler needs around the
// filesystem and the terminal: safe label directory names, collated label
// ordering, and width-aware wrapping of text items.
package textutil

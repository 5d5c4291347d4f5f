// Package preflight checks filesystem prerequisites before labeled files are
// redistributed: directory permissions and free space on the destination.
package preflight

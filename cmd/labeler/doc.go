// Command labeler labels images or text items interactively and organizes
// labeled images into per-label directories.
//
// Subcommands:
//
//	annotate  label a directory of images or a list of texts
//	organize  copy or move images into dest/<label>/ from a saved document
//	show      print a saved annotation document or its label counts
//	config    create or validate the configuration file
//
// Annotations are written to a JSON object mapping item keys to labels after
// every submission, so an interrupted session loses nothing already labeled.
package main

// Package logging assembles the slog loggers used by labeler commands.
//
// Console output is a compact human-readable layout with the component,
// item key and position in the header; JSON output suits log shipping. NewFromConfig
// also tees every record as JSON into labeler.log under the configured log
// directory, and can drop the console side entirely while the terminal UI
// owns the screen. Attribute helpers, context enrichment and a no-op logger
// round out the package.
package logging

// Package services defines shared utilities consumed by the annotation,
// storage, and organizer packages.
//
// Key responsibilities:
//   - Context helpers that stamp session IDs and item positions for logging
//     and tracing.
//   - Structured error markers plus the Wrap helper that keep failures
//     classifiable with errors.Is while carrying component and operation
//     context in the message.
//
// Use these helpers when wiring new components so operational behaviour
// (error classification, observability) stays uniform across the tool.
package services

// Package annotation implements the annotation session: the state machine
// that walks a sequence of items, records one label per item, and persists
// the growing annotation list after every submission.
//
// A Session starts Active with the cursor before the first item; the first
// call must be Advance. Submit records a label, persists, and advances. Skip
// and Advance move forward without recording, Retreat moves back (never
// below the first item). When Advance pushes the cursor past the last item
// the session becomes Done exactly once: the final list is persisted, a
// Completed event fires, and every further operation returns
// services.ErrSessionDone.
//
// Sessions do no rendering of their own. UI adapters subscribe to events and
// read session state; the render callback is invoked synchronously whenever
// the cursor lands on an item.
package annotation

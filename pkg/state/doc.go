// Package state defines the observable key/value store contract the validator
// engine binds to, plus a small in-memory implementation intended for tests,
// examples, and single-process consumers.
//
// Responsibilities:
//   - Store addresses values by dotted paths ("profile.address.city") over a
//     nested map tree and notifies change handlers after every mutation.
//   - Scope/At return same-type handles rooted at a sub-path so a consumer can
//     hand out a narrow view of a shared tree without copying it.
//   - ID generates fresh unique identifiers for entity creation; the memory
//     implementation delegates to google/uuid.
//
// The validator core stays store-agnostic: adapters backed by other reactive
// stores only need to satisfy Store and keep the post-mutation notification
// ordering described on OnChange.
package state

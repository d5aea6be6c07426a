// Package ticket drives a support ticket from intake to resolution.
//
// A ticket is opened when a requester submits the intake form. The manager
// creates a private channel for it and registers it as Open. A member of the
// staff role (or an administrator) claims it, after which only the claimant
// or an administrator may accept, reject or delete it, or add a collaborator
// to the channel. Every resolution deletes the channel and removes the ticket
// from the registry, so no further transition is possible.
//
// Tickets live in memory only. Their channel is the only durable trace.
//
// # Concurrency
//
// Platform events are handled on separate goroutines. The manager commits
// each state change (claim, resolve) inside a single critical section before
// it makes any platform call, so two concurrent claims cannot both succeed.
// Side effects run afterwards against a copy of the committed ticket; their
// failures are logged and never abort sibling side effects.
package ticket

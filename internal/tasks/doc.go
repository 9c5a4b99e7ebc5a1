// Package tasks implements the reconciliation and transfer core.
//
// The pipeline: raw Toggl entries are filtered to bookable ones, grouped
// into logical units, and matched against a per-issue work item index using
// composite keys (description + calendar day). The Validator flags duration
// mismatches, IsEntryTransferred decides whether a unit is already booked,
// and the TransferEngine executes the create -> tag -> (rollback on partial
// failure) booking protocol. ReconcileEngine ties one full refresh together
// and emits progress updates via channels for non-blocking status reporting
// to CLI/UI layers.
package tasks

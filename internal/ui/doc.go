// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for weekly reconciliation:
//  1. [EntryListView] : Browse logical units with validation verdicts
//  2. [ConfirmView] : Confirm a booking before it is made
//  3. [TransferView] : Monitor the transfer protocol
//  4. [ResultView] : Display the booking outcome
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the ReconcileEngine, providing non-blocking status reporting during refreshes.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui

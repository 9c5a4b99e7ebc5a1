// Package models contains the shared domain types exchanged between the
// remote service clients, the reconciliation core and the presentation
// layers.
//
// Types here carry no behavior beyond small derived accessors; the
// reconciliation rules live in internal/tasks.
package models

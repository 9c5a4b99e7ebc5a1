// Package services contains the HTTP clients for the two remote systems the
// reconciler talks to.
//
// TogglService speaks the Toggl Track API v9 with basic auth
// (token:api_token). YouTrackService speaks the YouTrack REST API with a
// permanent bearer token and throttles itself with a client-side rate
// limiter. Both are consumed through the TimeTracker and IssueTracker
// interfaces so the core and the tests never depend on concrete clients.
package services

// Package verdant holds the pieces shared by every state container of the
// Verdant Agriculture site: the Scheduler abstraction used for delayed
// transitions and the manual scheduler used to drive them in tests.
//
// The state containers themselves live in their own packages:
//
//   - navigation: route table, matcher and nav links
//   - transition: exit-then-enter view transitions
//   - scrollspy: active section tracking on long pages
//   - catalog: category filtering of the project grid
//   - contactform: the simulated contact form submission
//   - gallery: the auto-advancing project image carousel
//
// A session (package session) owns one of each and serializes every event
// through a single goroutine, so none of the containers lock internally.
package verdant

// Package nav orchestrates single navigations.
//
// The controller is a two-state machine, Idle and Navigating. A
// navigation request is rejected outright while another is in flight,
// so no two swaps can race on the shared container; every navigation,
// successful or not, ends back in Idle. Within a navigation the
// controller fires the lifecycle hooks, honors the cooperative
// transition delay, awaits the fetch pipeline, and hands the resolved
// entry to the DOM sync layer for application.
package nav

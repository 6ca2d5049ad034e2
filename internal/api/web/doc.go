// Package web is the HTTP request boundary of the controller. It maps
// the device's historical endpoints (output toggles, setAlarms,
// startTimer and friends, all query-parameter driven) onto the
// scheduling engine's operations and serves the control page plus a
// JSON status snapshot.
package web

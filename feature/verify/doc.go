// Package verify checks a provisioned backend against the provisioning
// document without modifying it.
//
// The analytics API, dashboard and notebook runner all resolve market data at
// <base>/<market>/<data file> and strategies under <base>/<market>/strategies.
// After a provisioning run (or at any later point), the verify service walks
// the configured tree and reports every bucket, segment, or object those
// consumers would fail to find.
package verify

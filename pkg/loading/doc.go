// Package loading describes where a load operation is in its lifecycle.
//
// A [State] is one of four variants: Initial (nothing has loaded yet),
// Loading (a load is in flight), Success (the most recent load completed) or
// Error (the most recent load failed, carrying its cause). Commands drive the
// transitions; UI code only reads them.
//
// # State Machine
//
// Valid transitions:
//   - Initial -> Loading
//   - Success -> Loading
//   - Error   -> Loading
//   - Loading -> Success, Error
//
// Cancellation is not a variant: a cancelled load leaves the state as it was.
package loading

// Package limits decides whether a story generation request may reach the
// upstream language model.
//
// # Overview
//
// Three limits are enforced at the same time:
//
//   - a per-client request cap inside a sliding window (default 10 per hour)
//   - a global daily request cap (default 1000)
//   - a global daily cost cap (default 5.0)
//
// The state backing these limits lives in a single in-process Ledger guarded
// by one mutex owned by the Controller. Callers never touch the Ledger; they
// go through TryAdmit (check and charge) and AddCost (post-call correction).
//
// # Usage
//
//	ctrl, err := limits.NewController(limits.DefaultLimits())
//	if err != nil {
//	    return err
//	}
//
//	decision := ctrl.TryAdmit(clientKey, time.Now())
//	if !decision.Admitted {
//	    return decision.Err()
//	}
//
//	// ... call the provider outside the lock ...
//	ctrl.AddCost(actualCost)
//
// # Check Order
//
// Budget is checked before the global request cap, and both before the
// per-client window. A client blocked only by its own limit receives the
// most specific wait hint.
//
// # Thread Safety
//
// All Controller methods are safe for concurrent use. The lock is held only
// for the check-and-update sequence, never across provider I/O.
package limits

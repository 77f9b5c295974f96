// Package access implements the two gates in front of the launcher UI.
//
// They are separate state machines and share nothing:
//
//   - LockGate: Locked or Unlocked. Unlock happens only through a successful
//     code verification, lock only through an explicit Lock. Removing the
//     lock code forces Unlocked.
//   - RevealGesture: a tap counter on one fixed affordance (the title). Each
//     tap within the window increments the counter; reaching the threshold
//     reveals the vault and resets the counter. A tap after the window has
//     expired, or a Miss (activity anywhere else), starts over.
//
// The vault has no PIN of its own. Once revealed it stays visible until
// Close is called.
package access

// Package captcha issues procedurally generated arrow-sequence challenges
// and tracks each challenge's lifecycle until it is solved, removed, or
// regenerated after repeated failure.
//
// The Manager is the facade a host application holds. It composes the
// answer generator, the image-synthesis pipeline, and the concurrent
// session store:
//
//	mgr, err := captcha.NewManager(nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Issue a challenge for a host-supplied session identifier.
//	if err := mgr.Generate(ctx, sessionID, 2); err != nil {
//		log.Fatal(err)
//	}
//
//	// Ship the encoded image to the operator.
//	img, ok := mgr.GetChallenge(sessionID)
//
//	// Route each key press the operator sends back.
//	result, err := mgr.SubmitInput(ctx, sessionID, sequence.Up)
//	switch result {
//	case captcha.InputSolved:
//		// human verified; the challenge removed itself
//	case captcha.InputRegenerated:
//		// too many failures; a fresh image is waiting in GetChallenge
//	}
//
// The manager is safe for concurrent use from many independent callers.
// Challenge synthesis is CPU-bound and runs outside all store locks,
// bounded by a configurable worker semaphore; only fully formed challenges
// are ever published into the store.
//
// The challenge alphabet has three symbols over six positions (~9.5 bits),
// a deliberate usability trade-off: the system screens for a human, it
// does not resist offline guessing. Session expiry is likewise the host's
// concern; the store exposes Count and SessionIDs for external sweeps.
package captcha

package render

// OnDrop holds a single-use cleanup function and guarantees it runs at
// most once. The usual pattern is to defer Run immediately after creating
// the guard, then call Disarm once the operation has completed and the
// cleanup is no longer wanted:
//
//	guard := render.NewOnDrop(func() { _ = tx.Rollback() })
//	defer guard.Run()
//	// ... work ...
//	if err := tx.Commit(); err != nil {
//	    return err
//	}
//	guard.Disarm()
type OnDrop struct {
	fn func()
}

// NewOnDrop creates a guard around fn.
func NewOnDrop(fn func()) *OnDrop {
	return &OnDrop{fn: fn}
}

// Run executes the guarded function if it has not already run and has not
// been disarmed. Calling Run again afterwards does nothing, even if the
// function itself panicked.
func (d *OnDrop) Run() {
	if d.fn == nil {
		return
	}
	fn := d.fn
	d.fn = nil
	fn()
}

// Disarm cancels the guard so that Run becomes a no-op. Disarming an
// already-run guard does nothing.
func (d *OnDrop) Disarm() {
	d.fn = nil
}

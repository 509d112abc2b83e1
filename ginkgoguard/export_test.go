package ginkgoguard

// SetFailHandlers replaces spec failure and suite abort until restore is
// called.
func SetFailHandlers(onFail, onAbort func(string, ...int)) (restore func()) {
	prevFail, prevAbort := fail, abortSuite
	fail, abortSuite = onFail, onAbort
	return func() {
		fail, abortSuite = prevFail, prevAbort
	}
}

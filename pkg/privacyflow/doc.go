// Package privacyflow implements the PrivacyFlow messaging API plugin core:
// request construction, response mapping, error classification and the poll tick.
//
// The package is independent of any host registration mechanism. Host adapters
// (workflow nodes, source providers, the web API) call Dispatcher.Dispatch for
// actions and Poller.Poll for triggers. Every failure is a *Error whose Kind is
// one of the ErrorKind constants:
//
//	items, err := dispatcher.Dispatch(ctx, privacyflow.ResourceContactManagement,
//		privacyflow.OperationListContacts, nil)
//	switch privacyflow.KindOf(err) {
//	case "":
//		// use items
//	case privacyflow.KindTransient, privacyflow.KindRateLimited:
//		// the host may retry
//	default:
//		// surface err.Error() to the operator
//	}
package privacyflow

// Package errors provides the error taxonomy shared by reqkit packages.
//
// Every failure surfaced by the request builder, the driver, the transports
// and the JSON-RPC layer is an *AppError carrying a machine-readable code.
// Callers branch on the code with the Is* predicates or CodeOf:
//
//	resp, err := client.Send(ctx, req)
//	switch {
//	case errors.IsTransport(err):
//	    // network-level failure, details carry "code" and "message"
//	case errors.IsContentTypeMismatch(err):
//	    // the server answered with something other than the accept constraint
//	}
package errors

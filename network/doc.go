// Package network turns declarative endpoint descriptions into HTTP requests
// and decodes their responses into caller-chosen types.
//
// # Architecture
//
// The package is organized into three pieces:
//
//   - Descriptor: a plain description of one REST operation (path, verb,
//     headers, ordered query items, optional JSON body)
//   - Build: a pure function turning a Descriptor into an immutable Request
//   - Client: executes a Request, classifies the outcome and hands back the
//     raw body of successful responses
//
// The generic Fetch helper ties them together:
//
//	client := network.NewClient(logger, network.WithBaseURL("https://dummyjson.com"))
//	page, err := network.Fetch[recipes.RecipeModel](ctx, client, descriptor)
//
// # Error Handling
//
// Every failure is reported as a *Error whose Kind is one of a closed set:
//
//   - KindInvalidURL: the descriptor could not be resolved into a request target
//   - KindEncodingFailed: the request body could not be serialized
//   - KindRequestFailed: the server answered outside 200-299
//   - KindDecodingFailed: the body did not match the expected shape
//   - KindUnknown: any transport failure
//
// Callers classify with KindOf, StatusCode or errors.Is(err, ErrInvalidURL).
package network

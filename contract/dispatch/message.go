package dispatch

// Request is a marker for messages handled by exactly one RequestHandler or QueryHandler.
// A request that produces a response is called a query here.
type Request interface{}

// Query is a marker for requests that produce a typed response.
type Query interface{}

// Event represents in-process events broadcast to every registered EventHandler, in order.
type Event interface{}

// Topical events choose their own broker topic when forwarded.
type Topical interface{ Topic() string }

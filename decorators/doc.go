/*
Package decorators provides ready-made registry.Decorator implementations for cross-cutting
concerns: structured logging with correlation ids, Prometheus metrics, message validation,
rate limiting and retries of fatal faults.

Apply them through registry.Builder.ApplyDecorator. The first one applied ends up innermost.
*/
package decorators

/*
Package servicebus provides the dispatch entry points: a Mediator that sends requests and queries
to exactly one handler, and an EventBus that publishes events to every registered handler in order.
Both read from an immutable registry.Table through a registry.Locator.
*/
package servicebus

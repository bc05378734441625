/*
Package dispatch holds the handler contracts shared by the registry, the mediator and the event bus.
It depends only on the outcome and validation packages so host code can implement handlers
without importing the dispatch machinery.
*/
package dispatch

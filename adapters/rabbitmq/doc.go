/*
Package rabbitmq provides a RabbitMQ relay publisher for forwarded events.
Events go to a topic exchange with the event topic as routing key. Connect keeps the
connection alive with exponential backoff and supports optional header propagation via a
dispatch.HeaderPropagator.
*/
package rabbitmq

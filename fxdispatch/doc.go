/*
Package fxdispatch wires the mediator into a go.uber.org/fx application.

Handler modules and extra decorators are collected from value groups, so each feature package
contributes its own handlers:

	fx.New(
		fxdispatch.LoadConfig(""),
		fxdispatch.Module(),
		fxdispatch.Handlers(orders.NewModule),
		fx.Invoke(func(b *servicebus.Bus) { ... }),
	)
*/
package fxdispatch

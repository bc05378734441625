package registry

import (
	"context"
	"reflect"
	"strings"
)

// Shape names one of the supported generic handler contracts.
type Shape int

const (
	// ShapeRequest is dispatch.RequestHandler[R].
	ShapeRequest Shape = iota + 1
	// ShapeQuery is dispatch.QueryHandler[Q, S].
	ShapeQuery
	// ShapeEvent is dispatch.EventHandler[E].
	ShapeEvent
)

// AllShapes lists every supported shape in declaration order.
func AllShapes() []Shape { return []Shape{ShapeRequest, ShapeQuery, ShapeEvent} }

// MediatorShapes are the single-handler shapes.
func MediatorShapes() []Shape { return []Shape{ShapeRequest, ShapeQuery} }

func (s Shape) String() string {
	switch s {
	case ShapeRequest:
		return "request"
	case ShapeQuery:
		return "query"
	case ShapeEvent:
		return "event"
	default:
		return "unknown"
	}
}

// Contract is a closed instantiation of a Shape. It is comparable and used as the table key.
// Response is nil for request and event contracts.
type Contract struct {
	Shape    Shape
	Message  reflect.Type
	Response reflect.Type
}

func (c Contract) String() string {
	var b strings.Builder

	b.WriteString(c.Shape.String())
	b.WriteByte('(')
	b.WriteString(typeString(c.Message))

	if c.Response != nil {
		b.WriteString(" -> ")
		b.WriteString(typeString(c.Response))
	}

	b.WriteByte(')')

	return b.String()
}

// RequestContract returns the contract key of RequestHandler[R].
func RequestContract[R any]() Contract {
	return Contract{Shape: ShapeRequest, Message: reflect.TypeFor[R]()}
}

// QueryContract returns the contract key of QueryHandler[Q, S].
func QueryContract[Q, S any]() Contract {
	return Contract{Shape: ShapeQuery, Message: reflect.TypeFor[Q](), Response: reflect.TypeFor[S]()}
}

// EventContract returns the contract key of EventHandler[E].
func EventContract[E any]() Contract {
	return Contract{Shape: ShapeEvent, Message: reflect.TypeFor[E]()}
}

// Invoker is the composed, type-erased form of a resolved handler.
// For request and query contracts the returned value is the handler outcome;
// for event contracts it is nil. The error is a fatal fault, never a domain error.
type Invoker func(ctx context.Context, msg any) (any, error)

func typeString(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}

func containsShape(shapes []Shape, s Shape) bool {
	for _, v := range shapes {
		if v == s {
			return true
		}
	}

	return false
}

package cctx

import "context"

// Context request context with access to shared connections
type Context struct {
	context.Context
}

// New new context
func New() *Context {
	return &Context{Context: context.Background()}
}

// Wrap wrap ctx
func Wrap(ctx context.Context) *Context {
	if c, ok := ctx.(*Context); ok {
		return c
	}

	return &Context{Context: ctx}
}

package router

// ComposeMiddleware builds a handler chain from middleware and a final handler.
// Middleware is executed in order (first to last), with the handler at the end.
func ComposeMiddleware(nav *Navigation, mw []Middleware, handler func() error) error {
	if len(mw) == 0 {
		return handler()
	}

	chain := handler
	for i := len(mw) - 1; i >= 0; i-- {
		m := mw[i]
		next := chain
		chain = func() error {
			return m.Handle(nav, next)
		}
	}

	return chain()
}

// Chain creates a middleware that combines multiple middleware in order.
func Chain(middleware ...Middleware) Middleware {
	return MiddlewareFunc(func(nav *Navigation, next func() error) error {
		return ComposeMiddleware(nav, middleware, next)
	})
}

// Skip runs mw unless condition holds.
func Skip(condition func(nav *Navigation) bool, mw Middleware) Middleware {
	return MiddlewareFunc(func(nav *Navigation, next func() error) error {
		if condition(nav) {
			return next()
		}
		return mw.Handle(nav, next)
	})
}

// Only runs mw only when condition holds.
func Only(condition func(nav *Navigation) bool, mw Middleware) Middleware {
	return MiddlewareFunc(func(nav *Navigation, next func() error) error {
		if !condition(nav) {
			return next()
		}
		return mw.Handle(nav, next)
	})
}

// Guard aborts navigations into the named routes when allow returns an error.
func Guard(allow func(nav *Navigation) error, names ...string) Middleware {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return MiddlewareFunc(func(nav *Navigation, next func() error) error {
		if _, ok := set[nav.RouteName()]; ok || len(set) == 0 {
			if err := allow(nav); err != nil {
				return err
			}
		}
		return next()
	})
}

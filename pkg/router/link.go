package router

import (
	"context"
	"io"
	"net/url"

	"github.com/a-h/templ"
)

// Link renders an anchor to a named route with client-side navigation.
// When clicked, the thin client intercepts the click and navigates over the
// live connection instead of reloading the page.
func (r *Router) Link(name string, label string) templ.Component {
	return r.link(name, nil, label, "")
}

// LinkWithQuery is Link with query parameters.
func (r *Router) LinkWithQuery(name string, query url.Values, label string) templ.Component {
	return r.link(name, query, label, "")
}

// NavLink renders a Link that carries the "active" class when current is the
// same route.
func (r *Router) NavLink(name, label string, current *MatchResult) templ.Component {
	class := ""
	if current != nil && current.Route.Name == name {
		class = "active"
	}
	return r.link(name, nil, label, class)
}

func (r *Router) link(name string, query url.Values, label, class string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		href, err := r.Href(name, query)
		if err != nil {
			return err
		}
		out := `<a href="` + templ.EscapeString(href) + `" data-link="true" data-route="` + templ.EscapeString(name) + `"`
		if class != "" {
			out += ` class="` + templ.EscapeString(class) + `" aria-current="page"`
		}
		out += `>` + templ.EscapeString(label) + `</a>`
		_, err = io.WriteString(w, out)
		return err
	})
}

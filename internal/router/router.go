// Package router implements the path-template dispatcher behind the resource
// API. Routes are matched in registration order against the whole path, so
// dispatch behavior is a function of the registration list alone: there are
// no specificity rules and no prefix matches when templates overlap.
package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/librarium/lending-api/internal/api/httpx"
)

// HandlerFunc handles a dispatched request together with the path parameters
// bound from the matched template.
type HandlerFunc func(http.ResponseWriter, *http.Request, Params)

// Param is one bound path parameter.
type Param struct {
	Name  string
	Value string
}

// Params holds bound parameters in the order their placeholders appear in the
// registered template.
type Params []Param

// ByName returns the value bound to name, or "" when the template has no such
// placeholder.
func (ps Params) ByName(name string) string {
	for _, p := range ps {
		if p.Name == name {
			return p.Value
		}
	}
	return ""
}

// segment is one compiled template segment: either a literal that must match
// byte-for-byte, or a named placeholder that binds exactly one non-empty path
// segment. Splitting on "/" guarantees a bound value can never contain a
// slash.
type segment struct {
	literal string
	param   string
}

type route struct {
	method   string
	pattern  string
	segments []segment
	handler  HandlerFunc
}

// Router dispatches requests by matching method and path against templates in
// registration order: the first template whose method matches and whose
// compiled segments match the full path wins. Literal segments are
// case-sensitive; matching is anchored, so a template never matches a longer
// path.
type Router struct {
	routes   []route
	notFound http.HandlerFunc
	log      *slog.Logger
}

// New returns an empty router. The default not-found outcome is a JSON 404
// envelope; replace it with NotFound.
func New(log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}
	return &Router{
		log: log,
		notFound: func(w http.ResponseWriter, _ *http.Request) {
			httpx.WriteError(w, http.StatusNotFound, "not found")
		},
	}
}

// NotFound replaces the handler invoked when no template matches.
func (rt *Router) NotFound(h http.HandlerFunc) {
	if h != nil {
		rt.notFound = h
	}
}

// Handle registers a template for the given method. Templates are absolute
// paths whose segments are either literals or {name} placeholders. Malformed
// templates are programmer errors and panic at registration.
func (rt *Router) Handle(method, pattern string, h HandlerFunc) {
	if h == nil {
		panic(fmt.Sprintf("router: nil handler for %s %s", method, pattern))
	}
	segments, err := compile(pattern)
	if err != nil {
		panic("router: " + err.Error())
	}
	rt.routes = append(rt.routes, route{
		method:   strings.ToUpper(method),
		pattern:  pattern,
		segments: segments,
		handler:  h,
	})
}

func (rt *Router) Get(pattern string, h HandlerFunc) { rt.Handle(http.MethodGet, pattern, h) }

func (rt *Router) Post(pattern string, h HandlerFunc) { rt.Handle(http.MethodPost, pattern, h) }

// Match reports the handler and bound parameters for the first registered
// template matching method and path, or ok=false when none does.
func (rt *Router) Match(method, path string) (HandlerFunc, Params, bool) {
	r, ps, ok := rt.lookup(method, path)
	if !ok {
		return nil, nil, false
	}
	return r.handler, ps, true
}

func (rt *Router) lookup(method, path string) (route, Params, bool) {
	for _, r := range rt.routes {
		if r.method != method {
			continue
		}
		if ps, ok := r.match(path); ok {
			return r, ps, true
		}
	}
	return route{}, nil, false
}

// ServeHTTP dispatches to the first matching template. No match produces the
// not-found outcome; a panicking handler produces the internal-error outcome
// instead of tearing down the connection.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	matched, ps, ok := rt.lookup(r.Method, r.URL.Path)
	if !ok {
		rt.notFound(w, r)
		return
	}
	recordPattern(r.Context(), matched.pattern)
	rt.invoke(w, r, matched, ps)
}

func (rt *Router) invoke(w http.ResponseWriter, r *http.Request, matched route, ps Params) {
	defer func() {
		if rec := recover(); rec != nil {
			rt.log.Error("handler panic",
				"method", matched.method,
				"pattern", matched.pattern,
				"err", rec,
			)
			httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		}
	}()
	matched.handler(w, r, ps)
}

func (r route) match(path string) (Params, bool) {
	if path == "" || path[0] != '/' {
		return nil, false
	}
	parts := strings.Split(path[1:], "/")
	if len(parts) != len(r.segments) {
		return nil, false
	}
	var ps Params
	for i, seg := range r.segments {
		if seg.param != "" {
			if parts[i] == "" {
				return nil, false
			}
			ps = append(ps, Param{Name: seg.param, Value: parts[i]})
			continue
		}
		if parts[i] != seg.literal {
			return nil, false
		}
	}
	return ps, true
}

func compile(pattern string) ([]segment, error) {
	if pattern == "" || pattern[0] != '/' {
		return nil, fmt.Errorf("pattern must begin with '/': %q", pattern)
	}
	parts := strings.Split(pattern[1:], "/")
	segments := make([]segment, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, part := range parts {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			name := part[1 : len(part)-1]
			if name == "" || strings.ContainsAny(name, "{}") {
				return nil, fmt.Errorf("malformed placeholder %q in pattern %q", part, pattern)
			}
			if seen[name] {
				return nil, fmt.Errorf("duplicate placeholder %q in pattern %q", name, pattern)
			}
			seen[name] = true
			segments = append(segments, segment{param: name})
			continue
		}
		if strings.ContainsAny(part, "{}") {
			return nil, fmt.Errorf("malformed segment %q in pattern %q", part, pattern)
		}
		segments = append(segments, segment{literal: part})
	}
	return segments, nil
}

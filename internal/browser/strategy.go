package browser

import "context"

// Strategy is one named way to locate a UI affordance. The platform reworks
// its DOM regularly, so each affordance carries an ordered fallback list of
// strategies instead of a single selector buried in a try/skip block.
type Strategy struct {
	Name  string
	Query string
}

// Match reports which strategy located an affordance, if any. Surfacing the
// winning strategy keeps selector drift inspectable from the logs.
type Match struct {
	Strategy string
	Handle   Handle
	Found    bool
}

// ResolveWithin tries strategies in order scoped to one element and returns
// the first match.
func ResolveWithin(ctx context.Context, d Driver, scope Handle, strategies []Strategy) Match {
	for _, s := range strategies {
		h, ok := d.FindWithin(ctx, scope, s.Query)
		if !ok {
			continue
		}
		return Match{Strategy: s.Name, Handle: h, Found: true}
	}
	return Match{}
}

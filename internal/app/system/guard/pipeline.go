package guard

import "context"

// Check is one authorization step. It may block on the store.
type Check func(ctx context.Context, c *Context) Decision

// Guard is a named Check. The name shows up in logs.
type Guard struct {
	Name  string
	Check Check
}

// Pipeline is an ordered list of guards.
type Pipeline []Guard

// Run executes the guards in order and stops at the first decision that is
// not Continue. It returns that decision and the deciding guard's name; when
// every guard continues it returns Continue and "".
func (p Pipeline) Run(ctx context.Context, c *Context) (Decision, string) {
	for _, g := range p {
		if d := g.Check(ctx, c); !d.Passed() {
			return d, g.Name
		}
	}
	return Continue(), ""
}

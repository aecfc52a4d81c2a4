package clite

// Control-transfer signals travel up the Go call stack as errors and are
// caught only at loop and call boundaries. They never escape Run.

type returnSignal struct {
	value Value
	pos   Position
}

func (r *returnSignal) Error() string { return "return" }

type breakSignal struct {
	pos Position
}

func (b *breakSignal) Error() string { return "break" }

type continueSignal struct {
	pos Position
}

func (c *continueSignal) Error() string { return "continue" }

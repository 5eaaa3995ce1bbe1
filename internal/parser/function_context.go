package parser

// FunctionParserContext tracks user functions declared with `prefix` or
// `infix` so the expression parser can apply them without parentheses.
type FunctionParserContext struct {
	prefix map[string]struct{}
	infix  map[string]struct{}
}

func NewFunctionParserContext() *FunctionParserContext {
	return &FunctionParserContext{
		prefix: make(map[string]struct{}),
		infix:  make(map[string]struct{}),
	}
}

func (c *FunctionParserContext) AddPrefix(name string) { c.prefix[name] = struct{}{} }
func (c *FunctionParserContext) AddInfix(name string)  { c.infix[name] = struct{}{} }

func (c *FunctionParserContext) IsPrefix(name string) bool {
	_, ok := c.prefix[name]
	return ok
}

func (c *FunctionParserContext) IsInfix(name string) bool {
	_, ok := c.infix[name]
	return ok
}

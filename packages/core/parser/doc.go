// Package parser parses call signatures used by api and suite definitions.
//
// A call signature looks like a plain function call:
//
//	api_login($username, $password)
//	create_order(42, currency=USD)
//	checkout(${gen_cart_id()}, retry=3)
//
// Parsing produces a FunctionMeta with the function name, ordered
// positional arguments, and keyword arguments. Arguments are kept as an
// expression AST (Literal, VariableRef, FunctionCall) so evaluation can
// happen later, against whatever bindings are in scope at that point.
//
// The package also extracts ${func(...)} call groups and $name variable
// references out of arbitrary strings for the expression evaluator.
package parser

// Package eval substitutes variables and function calls across arbitrary
// nested test data.
//
// Evaluation walks sequences and mappings depth-first. Inside strings,
// ${func(...)} call groups resolve before bare $name references, and a
// string that is exactly one expression keeps the native type of its
// result:
//
//	"${add(1, 2)}"        => 3
//	"/api/${add(1, 2)}/x" => "/api/3/x"
//	"$data"               => whatever $data is bound to, any shape
//
// Names resolve through a chain: explicitly bound variables/functions,
// then the built-in function table, then an external per-directory
// binding source. An unresolvable name is a params error.
package eval

// Package builtin provides the fixed built-in function table consulted by
// the expression evaluator after explicitly bound functions and before any
// external binding source.
//
// Available functions:
//   - uuid(): random UUID v4
//   - timestamp() / timestamp_ms(): current Unix time
//   - now() / date(format): formatted current time
//   - random(min, max): random integer in range
//   - random_string(length): random alphanumeric string
//   - base64(value) / base64_decode(value)
//   - md5(value) / sha256(value)
//   - url_encode(value) / url_decode(value)
//   - env(name): environment variable value
//   - jsonpath(document, path): gjson path query over a JSON document
//
// Functions are invoked with the ${name(args)} syntax inside test data.
package builtin

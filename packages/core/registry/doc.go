// Package registry owns the loaded api and suite definitions and resolves
// test files against them.
//
// A Registry is created per project root. LoadDependencies loads every api
// definition under the api root and every suite definition under the suite
// root; testcase files then assemble into Testsets whose api/suite
// references are fully expanded. Resolved testsets are cached per absolute
// path.
//
// All state lives on the Registry instance behind a mutex, so a registry
// can be shared by a concurrent host. Resolved definitions may be shared
// between callers and must be treated as read-only.
package registry

package functions

// New builds and returns the fully populated built-in function
// registry: every fn:/math:/map:/array: implementation in this
// package wired under its (namespace, local name) key. Grounded on
// funxy's modules.init() registration sequence, generalized from a
// package-level init() side effect to an explicit constructor so
// internal/dialects can build the one registry all profiles share
// without import-order surprises.
func New() *Registry {
	r := newRegistry()
	registerStrings(r)
	registerNumeric(r)
	registerBoolean(r)
	registerSequence(r)
	registerNode(r)
	registerQName(r)
	registerError(r)
	registerDateTime(r)
	registerMapArray(r)
	return r
}

package clean

// fixDataTypes is a declared stub: the name stays in the catalog so stored
// jobs referencing it keep working, but no coercion happens and the text
// comes back exactly as given.
// TODO: coerce values using the classify table once per-column target types
// are exposed to callers.
func fixDataTypes(req *request) (string, int) {
	return req.text, 0
}

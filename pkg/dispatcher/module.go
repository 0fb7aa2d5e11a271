package dispatcher

// getModuleName :
// Returns the name to use when logging messages originating
// from this package.
func getModuleName() string {
	return "dispatcher"
}

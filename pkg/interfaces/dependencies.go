package interfaces

// DependencyRegistrar records the client side CSS and JS files a page needs.
// Paths are virtual paths; folders expand to the files they contain.
type DependencyRegistrar interface {
	RequireCSS(path string)
	RequireJS(path string)
	RequireCSSFolder(path string)
	RequireJSFolder(path string)
}

package ports

import "net/url"

// Navigator is the host router collaborator. The engine decides where to go;
// the host decides how to get there (path routing, hash routing, ...).
type Navigator interface {
	// NavigateTo routes the user to the given path. Query may be nil.
	NavigateTo(path string, query url.Values)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(path string, query url.Values)

func (f NavigatorFunc) NavigateTo(path string, query url.Values) {
	f(path, query)
}

package handler

const (
	// RootPath is the base path of the JSON API.
	RootPath = "/api"

	// RouterRootPath is the root path inside a route group.
	RouterRootPath = "/"

	// ErrNilDepsFatalLogMsg is used if the app or deps pointer is nil.
	ErrNilDepsFatalLogMsg = "app or deps is nil"
)

package models

// ServiceInfo is returned by the DTS root endpoint and identifies the
// service a client has connected to.
type ServiceInfo struct {
	// Name is the name the service reports for itself.
	Name string `json:"name"`

	// Version is the semantic version of the running service.
	Version string `json:"version"`

	// Uptime is the service uptime in seconds.
	Uptime int64 `json:"uptime"`

	// Documentation is a URL for the service's API documentation,
	// when the service publishes one.
	Documentation string `json:"documentation,omitempty"`
}

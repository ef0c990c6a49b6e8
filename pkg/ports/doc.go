// Package ports defines the interfaces between the formflow engine core and
// its external collaborators: the backend API, the persisted session
// identity, and the host router. Adapters implement these; the core only
// depends on the contracts.
package ports

package models

// Fragment is one server-rendered HTML section of the landing page
type Fragment struct {
	Name string `json:"name"`
	HTML string `json:"html"`
}

// PageResponse carries all fragments of the landing page in render order.
// A fragment that failed to load is present with empty HTML so the page
// layout stays stable.
type PageResponse struct {
	Fragments []Fragment `json:"fragments"`
}

// FrontendLogEntry is a log record reported by the landing page
type FrontendLogEntry struct {
	Level   string         `json:"level" binding:"required,oneof=debug info warn error"`
	Message string         `json:"message" binding:"required"`
	Context map[string]any `json:"context"`
}

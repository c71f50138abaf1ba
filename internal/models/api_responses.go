package models

// IngestRequest is the body accepted by the search logging endpoint.
type IngestRequest struct {
	Term string `json:"term"`
}

// SuggestionsResponse lists the terms matching a suggestion query.
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

// AnalyticsResponse bundles the three analytics views for one origin.
type AnalyticsResponse struct {
	MostFrequent     []SearchRecord `json:"most_frequent"`
	YourMostFrequent []SearchRecord `json:"your_most_frequent"`
	YourMostRecent   []SearchRecord `json:"your_most_recent"`
}

// HealthResponse reports repository reachability.
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
	Error  string `json:"error,omitempty"`
}

package artifact

type Query struct {
	Query       string  `json:"query"`
	TopK        int     `json:"top_k"`
	UseEnhanced bool    `json:"use_enhanced"`
	ImageWeight float64 `json:"image_weight"`
}

// NewQuery returns a query with the server's defaults: 5 results, enhanced
// search, image weight 0.3.
func NewQuery(q string) Query {
	return Query{
		Query:       q,
		TopK:        5,
		UseEnhanced: true,
		ImageWeight: 0.3,
	}
}

type Match struct {
	ArtifactName string  `json:"artifact_name"`
	NumberPeriod string  `json:"number_period"`
	History      string  `json:"history,omitempty"`
	Craft        string  `json:"craft,omitempty"`
	ImageURL     string  `json:"image_url,omitempty"`
	Content      string  `json:"content,omitempty"`
	Score        float64 `json:"score"`
}

type SearchResult struct {
	Results []Match `json:"results"`
	Count   int     `json:"count"`
	Query   string  `json:"query"`
}

type Recognition struct {
	Recognition      map[string]any `json:"recognition"`
	SimilarArtifacts []Match        `json:"similar_artifacts"`
	FileURL          string         `json:"file_url"`
}

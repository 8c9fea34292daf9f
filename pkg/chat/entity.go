package chat

type Message struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

type History struct {
	History []Message `json:"history"`
	Count   int       `json:"count"`
}

type RelatedArtifact struct {
	ArtifactName string  `json:"artifact_name"`
	NumberPeriod string  `json:"number_period"`
	Score        float64 `json:"score"`
}

type Reply struct {
	AIResponse       string            `json:"ai_response"`
	Timestamp        string            `json:"timestamp"`
	RelatedArtifacts []RelatedArtifact `json:"related_artifacts"`
}

package dto

// SearchHit is one ranked catalog entry. Kind tells the caller which catalog
// the code belongs to (product | material | process).
type SearchHit struct {
	Kind     string  `json:"kind"`
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	Score    float64 `json:"score"`
}

type SearchResponse struct {
	Query string      `json:"query"`
	Hits  []SearchHit `json:"hits"`
}

package words

// WeightedWord is a display word paired with its occurrence count.
type WeightedWord struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

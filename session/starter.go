package session

// Starter is a suggested opening message shown before the first exchange.
type Starter struct {
	Label   string
	Message string
}

// Starters returns the fixed opening suggestions, in display order.
func Starters() []Starter {
	return []Starter{
		{Label: "Greetings", Message: "Hello! What can you help me with today?"},
		{Label: "Cancer Symptoms", Message: "What are the symptoms of Cancer?"},
	}
}

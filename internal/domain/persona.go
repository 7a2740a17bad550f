package domain

const (
	PersonaDelivery = "delivery"
	PersonaPatrol   = "patrol"
	PersonaSecurity = "security"
)

type Persona struct {
	Key            string
	ConversationID string
	Temperature    float32
	TopP           float32
}

// Roster returns the scripted personas in the order the courtroom lists them.
func Roster() []Persona {
	return []Persona{
		{Key: PersonaDelivery, ConversationID: "Kenji Tanaka", Temperature: 0.2, TopP: 0.4},
		{Key: PersonaPatrol, ConversationID: "StreetAssist Unit", Temperature: 0.2, TopP: 0.5},
		{Key: PersonaSecurity, ConversationID: "Sentinel Unit", Temperature: 0.2, TopP: 0.5},
	}
}

func LookupPersona(key string) (Persona, bool) {
	for _, p := range Roster() {
		if p.Key == key {
			return p, true
		}
	}
	return Persona{}, false
}

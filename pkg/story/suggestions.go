package story

import "math/rand/v2"

var (
	themen = []string{
		"Freundschaft", "Abenteuer", "Zauber", "Tiere im Wald", "Eine Reise",
		"Ein Geheimnis", "Mut", "Hilfsbereitschaft", "Weihnachten", "Sommerferien",
		"Ein verlorener Schatz", "Magische Welten", "Die vier Jahreszeiten",
		"Ein besonderes Fest", "Die Kraft der Fantasie",
	}

	personenTiere = []string{
		"Ein kleiner Hase namens Erwin", "Eine mutige Prinzessin namens Helena",
		"Ein frecher Fuchs namens Felix", "Eine weise Eule",
		"Ein tapferere Ritterin names Hannelore", "Ein tapferer Ritter names Siegfried",
		"Ein neugieriges Eichhörnchen", "Ein kleines Mädchen namens Juna",
		"Ein junger Drache", "Eine zauberhafte Fee", "Der fröhliche Bär Klaus",
		"Ein kluger Junge", "Eine singende Nachtigall",
	}

	orte = []string{
		"im Wald", "am See", "in einem Schloss", "auf einem Bauernhof",
		"in einem verzauberten Garten", "in den Bergen", "am Meer", "in einem Dorf",
		"im Zauberwald",
	}

	stimmungen = []string{
		"fröhlich", "spannend", "mysteriös", "lustig", "abenteuerlich",
		"gemütlich", "aufregend", "herzlich",
	}

	stile = []string{
		"Michael Ende", "Marc-Uwe Kling", "Astrid Lindgren", "Janosch",
		"Cornelia Funke", "Märchen", "Fabel", "Moderne Kindergeschichte",
	}
)

// Suggestion is a random set of story parameters.
type Suggestion struct {
	Thema         string `json:"thema"`
	PersonenTiere string `json:"personen_tiere"`
	Ort           string `json:"ort"`
	Stimmung      string `json:"stimmung"`
	Stil          string `json:"stil"`
}

// RandomSuggestion picks one entry from each list.
func RandomSuggestion() Suggestion {
	return Suggestion{
		Thema:         pick(themen),
		PersonenTiere: pick(personenTiere),
		Ort:           pick(orte),
		Stimmung:      pick(stimmungen),
		Stil:          pick(stile),
	}
}

func pick(options []string) string {
	return options[rand.IntN(len(options))]
}

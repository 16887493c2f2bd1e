package story

import (
	"fmt"

	"github.com/sebastiansucker/mAIrchen/pkg/processing/costs"
)

type audience struct {
	zielgruppe    string
	schwierigkeit string
}

var audiences = map[costs.AgeTier]audience{
	costs.AgeTier12: {
		zielgruppe:    "Kinder der Klassenstufen 1 & 2",
		schwierigkeit: "sehr einfach mit kurzen Sätzen und einfachen Wörtern",
	},
	costs.AgeTier34: {
		zielgruppe:    "Kinder der Klassenstufen 3 & 4",
		schwierigkeit: "kindgerecht mit etwas längeren Sätzen und anspruchsvolleren Wörtern",
	},
}

const userPromptTemplate = `Schreibe eine Geschichte mit folgenden Eigenschaften:
- Lesezeit: etwa %d Minuten (ca. %d-%d Wörter)
- Thema: %s
- Personen/Tiere: %s
- Ort: %s
- Stimmung: %s
%s- Schwierigkeitsgrad: %s

WICHTIG: Verwende beim Schreiben häufig Wörter aus dem Grundwortschatz als Leseübung.
Die Geschichte sollte kindgerecht, spannend und lehrreich sein.
Schreibe die Geschichte in normalem Text ohne Markdown-Formatierung (keine **fett** markierten Wörter).

Hier ist der Grundwortschatz zur Orientierung:
%s

Format:
Gib die Antwort im folgenden Format zurück:
TITEL: [Ein kurzer, ansprechender Titel für die Geschichte]

[Die Geschichte in Absätzen]

Beginne direkt mit "TITEL:" gefolgt vom Titel.

WICHTIG: Schreibe wirklich die vollständige Geschichte mit ca. %d Wörtern. Mache die Geschichte nicht kürzer!`

// Prompt is the message pair sent to the provider.
type Prompt struct {
	System string
	User   string
	Budget costs.TokenBudget
}

// BuildPrompt renders the prompts for req using budget for the word range
// and vocab for the reading list.
func BuildPrompt(req Request, budget costs.TokenBudget, vocab *Vocabulary) Prompt {
	aud := audiences[budget.AgeTier]

	stil := ""
	if req.Stil != "" {
		stil = fmt.Sprintf("- Stil/Genre: %s\n", req.Stil)
	}

	user := fmt.Sprintf(userPromptTemplate,
		req.Laenge, budget.MinWords, budget.MaxWords,
		req.Thema, req.PersonenTiere, req.Ort, req.Stimmung,
		stil, aud.schwierigkeit,
		vocab.Section(budget.AgeTier),
		budget.MaxWords,
	)

	return Prompt{
		System: fmt.Sprintf("Du bist ein kreativer Geschichtenerzähler für %s.", aud.zielgruppe),
		User:   user,
		Budget: budget,
	}
}

package story

import (
	"strings"
	"testing"

	"github.com/sebastiansucker/mAIrchen/pkg/processing/costs"
)

func TestBuildPrompt(t *testing.T) {
	vocab := NewVocabulary(testList)
	budgets := costs.NewBudgetCalculator(costs.DefaultBudgetConfig())

	req := Request{
		Thema:         "Freundschaft",
		PersonenTiere: "Ein frecher Fuchs namens Felix",
		Ort:           "im Wald",
		Stimmung:      "fröhlich",
		Laenge:        5,
		Klassenstufe:  "12",
	}

	t.Run("grades 1-2", func(t *testing.T) {
		p := BuildPrompt(req, budgets.Budget(req.Laenge, costs.AgeTier12), vocab)

		if p.System != "Du bist ein kreativer Geschichtenerzähler für Kinder der Klassenstufen 1 & 2." {
			t.Errorf("System = %q", p.System)
		}
		for _, want := range []string{
			"- Lesezeit: etwa 5 Minuten (ca. 300-350 Wörter)",
			"- Thema: Freundschaft",
			"- Personen/Tiere: Ein frecher Fuchs namens Felix",
			"- Ort: im Wald",
			"- Stimmung: fröhlich",
			"- Schwierigkeitsgrad: sehr einfach mit kurzen Sätzen und einfachen Wörtern",
			"- Haus",
			"mit ca. 350 Wörtern",
		} {
			if !strings.Contains(p.User, want) {
				t.Errorf("User prompt missing %q", want)
			}
		}
		if strings.Contains(p.User, "Abenteuer") {
			t.Error("grades 1-2 prompt contains grades 3-4 vocabulary")
		}
		if strings.Contains(p.User, "Stil/Genre") {
			t.Error("prompt contains a style line for an empty style")
		}
	})

	t.Run("grades 3-4 with style", func(t *testing.T) {
		r := req
		r.Klassenstufe = "34"
		r.Stil = "Janosch"
		p := BuildPrompt(r, budgets.Budget(r.Laenge, costs.AgeTier34), vocab)

		for _, want := range []string{
			"(ca. 400-500 Wörter)",
			"- Stil/Genre: Janosch\n- Schwierigkeitsgrad: kindgerecht",
			"- Abenteuer",
		} {
			if !strings.Contains(p.User, want) {
				t.Errorf("User prompt missing %q", want)
			}
		}
		if !strings.HasSuffix(p.System, "Klassenstufen 3 & 4.") {
			t.Errorf("System = %q", p.System)
		}
	})
}

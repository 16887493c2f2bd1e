package story

import "fmt"

// Request is the body of a story generation call.
type Request struct {
	Thema         string `json:"thema"`
	PersonenTiere string `json:"personen_tiere"`
	Ort           string `json:"ort"`
	Stimmung      string `json:"stimmung"`
	Laenge        int    `json:"laenge"`
	Klassenstufe  string `json:"klassenstufe"`
	Stil          string `json:"stil,omitempty"`
	Model         string `json:"model,omitempty"`
}

// ValidationError is returned for requests the service refuses to generate.
// Message is user-facing.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks the requested length against maxLength minutes.
func (r Request) Validate(maxLength int) error {
	if r.Laenge > maxLength {
		return &ValidationError{
			Field:   "laenge",
			Message: fmt.Sprintf("Länge darf maximal %d Minuten sein", maxLength),
		}
	}
	if r.Laenge < 1 {
		return &ValidationError{
			Field:   "laenge",
			Message: "Länge muss mindestens 1 Minute sein",
		}
	}
	return nil
}

// Parameters echoes the request back to the caller without the model.
type Parameters struct {
	Thema         string `json:"thema"`
	PersonenTiere string `json:"personen_tiere"`
	Ort           string `json:"ort"`
	Stimmung      string `json:"stimmung"`
	Stil          string `json:"stil"`
	Laenge        int    `json:"laenge"`
	Klassenstufe  string `json:"klassenstufe"`
}

// Parameters returns the fields echoed in a successful response.
func (r Request) Parameters() Parameters {
	return Parameters{
		Thema:         r.Thema,
		PersonenTiere: r.PersonenTiere,
		Ort:           r.Ort,
		Stimmung:      r.Stimmung,
		Stil:          r.Stil,
		Laenge:        r.Laenge,
		Klassenstufe:  r.Klassenstufe,
	}
}

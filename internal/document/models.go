package document

import (
	"fmt"
	"time"
)

// Kind says what sort of text a document holds.
type Kind string

const (
	KindCode Kind = "code"
	KindNote Kind = "note"
)

// Body is the typed part of a document: its kind plus the language for code
// documents. Language must be set for code documents and absent for notes;
// use CodeBody/NoteBody and Validate to keep the pairing out of callers' hands.
type Body struct {
	Kind     Kind   `json:"type" bson:"type"`
	Language string `json:"language,omitempty" bson:"language,omitempty"`
}

// CodeBody returns a code body in the given language.
func CodeBody(language string) Body {
	return Body{Kind: KindCode, Language: language}
}

// NoteBody returns a free-form note body.
func NoteBody() Body {
	return Body{Kind: KindNote}
}

// Validate enforces the language/kind pairing rule.
func (b Body) Validate() error {
	switch b.Kind {
	case KindCode:
		if b.Language == "" {
			return fmt.Errorf("%w: code documents require a language", ErrValidation)
		}
	case KindNote:
		if b.Language != "" {
			return fmt.Errorf("%w: note documents must not set a language", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown document type %q", ErrValidation, string(b.Kind))
	}
	return nil
}

// Document is the persistent document model. Content is replaced wholesale on
// every update; there is no diffing or merge.
type Document struct {
	ID             string    `json:"id" bson:"_id"`
	Title          string    `json:"title" bson:"title"`
	Content        string    `json:"content" bson:"content"`
	Body           `bson:",inline"`
	CreatedBy      string    `json:"createdBy" bson:"createdBy"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
	LastModifiedBy string    `json:"lastModifiedBy" bson:"lastModifiedBy"`
	LastModifiedAt time.Time `json:"lastModifiedAt" bson:"lastModifiedAt"`
}

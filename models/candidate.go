package models

// Candidate is one candidate-to-position application, resolved from the
// backend's nested suggestion shape. Immutable once fetched; the directory
// snapshot is read-only for the session.
type Candidate struct {
	ID       int    `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// SuggestionItem mirrors the backend's raw suggestion entry. The display
// fields live in different places depending on how the record was created,
// so each logical field has an ordered resolution list applied once here.
type SuggestionItem struct {
	ID        int              `json:"id"`
	Candidate *SuggestionOwner `json:"candidate"`
}

// SuggestionOwner carries the nested candidate fields.
type SuggestionOwner struct {
	FullName string            `json:"fullName"`
	Name     string            `json:"name"`
	Email    string            `json:"email"`
	Person   *SuggestionPerson `json:"person"`
}

// SuggestionPerson is the innermost person record.
type SuggestionPerson struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// DisplayName resolves, in order: candidate.fullName, candidate.person.fullName,
// candidate.name, "".
func (it *SuggestionItem) DisplayName() string {
	if it.Candidate == nil {
		return ""
	}
	if it.Candidate.FullName != "" {
		return it.Candidate.FullName
	}
	if it.Candidate.Person != nil && it.Candidate.Person.FullName != "" {
		return it.Candidate.Person.FullName
	}
	return it.Candidate.Name
}

// ContactEmail resolves, in order: candidate.email, candidate.person.email, "".
func (it *SuggestionItem) ContactEmail() string {
	if it.Candidate == nil {
		return ""
	}
	if it.Candidate.Email != "" {
		return it.Candidate.Email
	}
	if it.Candidate.Person != nil {
		return it.Candidate.Person.Email
	}
	return ""
}

// Resolve flattens the raw item into a Candidate.
func (it *SuggestionItem) Resolve() Candidate {
	return Candidate{
		ID:       it.ID,
		FullName: it.DisplayName(),
		Email:    it.ContactEmail(),
	}
}

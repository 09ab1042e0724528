package domain

// SubjectKind identifies what an engagement counter belongs to.
type SubjectKind string

const (
	SubjectSolicitor SubjectKind = "solicitor"
	SubjectTeam      SubjectKind = "team"
)

// String returns the string representation of SubjectKind.
func (k SubjectKind) String() string {
	return string(k)
}

// IsValid checks if the kind is a known value.
func (k SubjectKind) IsValid() bool {
	return k == SubjectSolicitor || k == SubjectTeam
}

// Subject is the owner of a set of engagement counters.
type Subject struct {
	Kind SubjectKind `json:"kind"`
	ID   string      `json:"id"`
}

// SolicitorSubject returns a solicitor subject.
func SolicitorSubject(id string) Subject {
	return Subject{Kind: SubjectSolicitor, ID: id}
}

// TeamSubject returns a team subject.
func TeamSubject(id string) Subject {
	return Subject{Kind: SubjectTeam, ID: id}
}

// String returns "kind:id".
func (s Subject) String() string {
	return string(s.Kind) + ":" + s.ID
}

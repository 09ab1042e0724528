package domain

// Solicitor is a fee earner with a public biography page.
// Corresponds to solicitors table in PostgreSQL.
type Solicitor struct {
	ID        string `json:"id"` // PRIMARY KEY
	Name      string `json:"name"`
	JobTitle  string `json:"job_title"`
	CreatedAt int64  `json:"created_at"` // record creation timestamp (ms)
}

// TeamType classifies teams on the teams page filter.
type TeamType string

const (
	TeamTypeService TeamType = "service"
	TeamTypeSector  TeamType = "sector"
)

// Team is a practice group. Corresponds to teams table in PostgreSQL.
type Team struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Type      TeamType `json:"type"`
	CreatedAt int64    `json:"created_at"`
}

// Membership links a solicitor to a team (solicitor_teams).
type Membership struct {
	SolicitorID string `json:"solicitor_id"`
	TeamID      string `json:"team_id"`
}

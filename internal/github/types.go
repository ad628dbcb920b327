package github

import (
	"fmt"
	"strings"
	"time"
)

// App identifies the OAuth application an authorization was granted to.
type App struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	ClientID string `json:"client_id"`
}

// Authorization is a server-side record of an issued OAuth2 grant.
type Authorization struct {
	ID             int64     `json:"id"`
	URL            string    `json:"url"`
	App            App       `json:"app"`
	Token          string    `json:"token"`
	HashedToken    string    `json:"hashed_token"`
	TokenLastEight string    `json:"token_last_eight"`
	Note           string    `json:"note"`
	NoteURL        string    `json:"note_url"`
	Fingerprint    string    `json:"fingerprint"`
	Scopes         []string  `json:"scopes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// String renders the authorization on a single line. Token material is never printed
// beyond the last eight characters GitHub already exposes.
func (a Authorization) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Authorization{id=%d", a.ID)
	if a.App.Name != "" {
		fmt.Fprintf(&sb, ", app=%s", a.App.Name)
	}
	if a.Note != "" {
		fmt.Fprintf(&sb, ", note=%s", a.Note)
	}
	if a.TokenLastEight != "" {
		fmt.Fprintf(&sb, ", token=…%s", a.TokenLastEight)
	}
	fmt.Fprintf(&sb, ", scopes=[%s]", strings.Join(a.Scopes, ", "))
	if !a.CreatedAt.IsZero() {
		fmt.Fprintf(&sb, ", created=%s", a.CreatedAt.UTC().Format(time.RFC3339))
	}
	sb.WriteString("}")
	return sb.String()
}

// AuthorizationList is the ordered sequence returned by GET /authorizations.
type AuthorizationList []Authorization

// String is the serialized text form of the list: "[a, b, ...]".
func (l AuthorizationList) String() string {
	parts := make([]string, len(l))
	for i, a := range l {
		parts[i] = a.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

package paper

// Author represents a paper author.
type Author struct {
	First string `json:"first,omitempty"` // First/given name(s)
	Last  string `json:"last"`            // Last/family name
}

package club

// Club mirrors the backend's club resource. Description is markdown.
type Club struct {
	ID               int64
	Name             string
	Description      string
	Category         string
	MemberCount      int
	LogoURL          string
	AcceptingMembers bool
}

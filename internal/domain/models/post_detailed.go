package model

// PostDetailed is a post with its creator populated.
type PostDetailed struct {
	Post    *Post    `json:"post"`
	Creator *Creator `json:"creator,omitempty"`
}

// Creator is the public projection of a post owner.
type Creator struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

func NewCreator(u *User) *Creator {
	if u == nil {
		return nil
	}
	return &Creator{ID: u.ID, Name: u.Name}
}

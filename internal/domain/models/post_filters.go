package model

type PostFilters struct {
	Limit       *int
	Offset      *int
	NewestFirst bool
}

// PostPage is one page of posts plus the total number of posts in the store.
type PostPage struct {
	Posts      []*PostDetailed `json:"posts"`
	TotalItems int             `json:"totalItems"`
}

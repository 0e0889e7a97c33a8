package model

type UpdatePostDTO struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	// ImageURL equal to ImageUnchanged keeps the stored reference.
	ImageURL string `json:"imageUrl"`
}

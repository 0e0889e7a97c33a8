package post_service

import "net/http"

// PageSize is the number of posts returned per listing page.
const PageSize = 2

const (
	msgPleaseLogin       = "Please login"
	msgTitleTooShort     = "Title should be 5 char At least"
	msgContentTooShort   = "Content should be 5 char At least"
	msgNoFileAdded       = "No file added"
	msgNoImageProvided   = "No image provided"
	msgImageNotFound     = "Image not found"
	msgImageInUse        = "Image is used by another post"
	minTitleLength       = 5
	minContentLength     = 5
	restOwnershipMessage = "Authorization Error"
	restNotFoundMessage  = "Can't find post"
	gqlOwnershipMessage  = "Not authorized"
	gqlNotFoundMessage   = "No post found"
)

// Policy holds the behaviour that differs between the REST and GraphQL
// surfaces. Both are kept as-is for client compatibility.
type Policy struct {
	RequireIdentityForReads bool
	NewestFirst             bool
	OwnershipStatus         int
	OwnershipMessage        string
	NotFoundStatus          int
	NotFoundMessage         string
	RequireImageOnCreate    bool
}

func RESTPolicy() Policy {
	return Policy{
		RequireIdentityForReads: false,
		NewestFirst:             false,
		OwnershipStatus:         http.StatusForbidden,
		OwnershipMessage:        restOwnershipMessage,
		NotFoundStatus:          http.StatusNotFound,
		NotFoundMessage:         restNotFoundMessage,
		RequireImageOnCreate:    true,
	}
}

func GraphQLPolicy() Policy {
	return Policy{
		RequireIdentityForReads: true,
		NewestFirst:             true,
		OwnershipStatus:         http.StatusUnauthorized,
		OwnershipMessage:        gqlOwnershipMessage,
		NotFoundStatus:          http.StatusUnauthorized,
		NotFoundMessage:         gqlNotFoundMessage,
		RequireImageOnCreate:    false,
	}
}

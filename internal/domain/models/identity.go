package model

// Identity is the verified subject of a bearer token.
type Identity struct {
	UserID string
	Email  string
}

// RequestContext carries the verified identity of one inbound request, if any.
// It is built once by the identity gate and never mutated afterwards.
type RequestContext struct {
	identity *Identity
}

func Anonymous() RequestContext {
	return RequestContext{}
}

func Authenticated(id Identity) RequestContext {
	return RequestContext{identity: &id}
}

func (rc RequestContext) IsAuthenticated() bool {
	return rc.identity != nil
}

// Identity returns a copy of the verified identity and whether one is present.
func (rc RequestContext) Identity() (Identity, bool) {
	if rc.identity == nil {
		return Identity{}, false
	}
	return *rc.identity, true
}

func (rc RequestContext) UserID() string {
	if rc.identity == nil {
		return ""
	}
	return rc.identity.UserID
}

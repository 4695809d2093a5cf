package service

// PreviewLimit is the page cap for roles without full reading access.
const PreviewLimit = 15

// AccessPolicy decides how many pages of a book a role may read. Pure,
// no failure modes; it is the sole gate between a restricted role and
// the rest of a book, so the session checks it both at open and on
// every advance.
type AccessPolicy struct {
	unrestricted map[string]bool
}

// NewAccessPolicy creates a policy treating the given role names as
// unrestricted.
func NewAccessPolicy(unrestrictedRoles []string) *AccessPolicy {
	roles := make(map[string]bool, len(unrestrictedRoles))
	for _, name := range unrestrictedRoles {
		roles[name] = true
	}
	return &AccessPolicy{unrestricted: roles}
}

// AllowedPages returns the number of pages of a book the role may
// navigate into.
func (p *AccessPolicy) AllowedPages(roleName string, bookPages int) int {
	if p.unrestricted[roleName] {
		return bookPages
	}
	if bookPages < PreviewLimit {
		return bookPages
	}
	return PreviewLimit
}

package domain

// Actor identifies the caller of a mutating operation. Admin is a
// capability, not an identity class: any actor holding it may bypass
// ownership checks and perform moderation. It is always passed explicitly
// rather than carried as ambient session state.
type Actor struct {
	ID    string
	Admin bool
}

// Owns reports whether the actor is the owner of the given listing.
func (a Actor) Owns(l *Listing) bool { return a.ID != "" && a.ID == l.OwnerID }

// MayMutate reports whether the actor may edit or delete the listing.
func (a Actor) MayMutate(l *Listing) bool { return a.Admin || a.Owns(l) }

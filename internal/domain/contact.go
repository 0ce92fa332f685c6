package domain

// Contact is the local view of a remote peer. Contacts are created the first
// time a peer is mentioned and are never removed by the sync engine.
type Contact struct {
	Name              string
	Online            bool
	AvatarFingerprint string
	// SuppressPersistence marks contacts that were only seen through a
	// profile view or an unsolicited message and should not be saved.
	SuppressPersistence bool
}

// Persistable reports whether the contact belongs in the saved roster.
func (c Contact) Persistable() bool {
	return c.Name != "" && !c.SuppressPersistence
}

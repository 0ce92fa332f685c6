package domain

import "strings"

const (
	DefaultAvatarHost  = "cdn.okcimg.com"
	avatarSchemePrefix = "http://"
)

// AvatarRequest identifies a buddy icon download. Fingerprint is the raw
// thumbnail value the server reported and is stored once the icon is saved.
type AvatarRequest struct {
	Contact     string
	Fingerprint string
	Host        string
	Path        string
}

// NewAvatarRequest splits a thumbnail reference into host and path. Absolute
// URLs on the avatar host lose their "http://<host>/" prefix; anything else
// is treated as a path on that host.
func NewAvatarRequest(contact, thumbnail, host string) AvatarRequest {
	if host == "" {
		host = DefaultAvatarHost
	}

	path := strings.TrimPrefix(thumbnail, avatarSchemePrefix+host+"/")

	return AvatarRequest{
		Contact:     contact,
		Fingerprint: thumbnail,
		Host:        host,
		Path:        path,
	}
}

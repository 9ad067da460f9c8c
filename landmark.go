package landmark

import "embed"

// AccountDetails holds the profile assets pushed to the announcement
// account: static/name.txt, static/description.txt and optional
// static/avatar.png, static/header.png.
//
//go:embed static
var AccountDetails embed.FS

package minecraft

// Profile is the player identity used to fill the auth related launch
// arguments. How it is obtained is up to the caller, an offline
// profile just uses "offline" as the access token.
type Profile struct {
	// ID is the player uuid
	ID   string
	Name string
	// AccessToken is passed to the game as is
	AccessToken string
}

// OfflineProfile builds a profile for launching without an account
func OfflineProfile(name string, uuid string) Profile {
	return Profile{ID: uuid, Name: name, AccessToken: "offline"}
}

// UserType returns the account type the game expects:
// "legacy" for offline sessions, "msa" for authenticated ones
func (p Profile) UserType() string {
	if p.AccessToken == "" || p.AccessToken == "offline" {
		return "legacy"
	}
	return "msa"
}

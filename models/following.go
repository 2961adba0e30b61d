package models

// Profile metadata from a kind 0 record
type Profile struct {
	Display string `json:"display" yaml:"display"`
	Nick    string `json:"nick" yaml:"nick"`
	Picture string `json:"picture" yaml:"picture"`
}

// Following one followed pubkey with its profile
type Following struct {
	Hex  string `json:"hex" yaml:"hex"`
	Npub string `json:"npub" yaml:"npub"`
	Profile `yaml:",inline"`
}

// Name display name, nick, or a placeholder
func (f *Following) Name() string {
	if f.Display != "" {
		return f.Display
	}
	if f.Nick != "" {
		return f.Nick
	}

	return "(no name)"
}

// Login identity the followings are loaded for
type Login struct {
	Hex    string `json:"hex"`
	Npub   string `json:"npub"`
	Method string `json:"method"`
}

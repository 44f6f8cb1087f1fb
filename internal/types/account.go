package types

// Account identifies the IRC identity the sender registers as.
type Account struct {
	Nick string `yaml:"nick"`
	User string `yaml:"user"`
}

type Token struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int      `json:"expires_in"`
	Scope        []string `json:"scope"`
	TokenType    string   `json:"token_type"`
}

package listener

import "fmt"

// IdentityAuthenticator trusts the token as an already-validated player id.
// Session issuance happens upstream; a real deployment fronts this server
// with a gateway that swaps credentials for the identity token.
type IdentityAuthenticator struct{}

func (IdentityAuthenticator) Authenticate(token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("missing identity token")
	}
	return token, nil
}

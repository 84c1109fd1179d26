package bga

import (
	"regexp"

	crerr "github.com/cockroachdb/errors"
)

var ErrAuthTokenNotFound = crerr.New("request token not found in page")

var requestTokenRegex = regexp.MustCompile(`requestToken:\s*'([^']*)'`)

// scrapeRequestToken pulls the request token the site embeds in its page
// config. Both the login form and the API need it.
func scrapeRequestToken(page []byte) (string, error) {
	match := requestTokenRegex.FindSubmatch(page)
	if len(match) < 2 || len(match[1]) == 0 {
		return "", ErrAuthTokenNotFound
	}
	return string(match[1]), nil
}

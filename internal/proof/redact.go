package proof

import (
	"net/url"
	"strings"
)

const redacted = "<redacted>"

// RedactEndpoint reduces a node reference to scheme and host. Anything that
// is not a URL with a host is hidden entirely.
func RedactEndpoint(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return redacted
	}
	return u.Scheme + "://" + u.Host
}

// RedactMessage removes endpoint and its secret-bearing parts (userinfo,
// path, query) from msg. Providers put access tokens in all three.
func RedactMessage(msg, endpoint string) string {
	if endpoint == "" {
		return msg
	}
	msg = strings.ReplaceAll(msg, endpoint, RedactEndpoint(endpoint))

	u, err := url.Parse(endpoint)
	if err != nil {
		return msg
	}
	var secrets []string
	if u.User != nil {
		secrets = append(secrets, u.User.String())
		if pass, ok := u.User.Password(); ok {
			secrets = append(secrets, pass)
		}
		// net/http masks only the password ("user:***@"); the user name
		// itself is often the provider key.
		secrets = append(secrets, u.User.Username())
	}
	if u.Path != "" && u.Path != "/" {
		secrets = append(secrets, u.EscapedPath(), u.Path)
	}
	if u.RawQuery != "" {
		secrets = append(secrets, u.RawQuery)
	}
	for _, s := range secrets {
		if s != "" {
			msg = strings.ReplaceAll(msg, s, redacted)
		}
	}
	return msg
}

// Package credential implements the git credential helper protocol.
// hubctl registers itself as a helper ("hubctl auth git-credential")
// and answers git's "get" requests from the resolved token for the
// requested host. "store" and "erase" are acknowledged but ignored:
// hubctl owns its credentials and git must not manage them.
package credential

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/hubctl/hubctl/pkg/auth"
	"github.com/hubctl/hubctl/pkg/cmdutil"
)

// UnsupportedOperationError is returned for operations outside the
// helper protocol.
type UnsupportedOperationError struct {
	Op string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unknown operation %q", e.Op)
}

// request holds the attributes git sends on stdin, one key=value per
// line, terminated by a blank line or EOF.
type request struct {
	protocol string
	host     string
	username string
	password string
}

func parseRequest(in io.Reader) (request, error) {
	var req request
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch key {
		case "protocol":
			req.protocol = value
		case "host":
			req.host = value
		case "username":
			req.username = value
		case "password":
			req.password = value
		case "url":
			req.applyURL(value)
		}
	}
	return req, scanner.Err()
}

// applyURL decomposes a url attribute into its component attributes,
// as git's own helpers do.
func (r *request) applyURL(raw string) {
	u, err := url.Parse(raw)
	if err != nil {
		return
	}
	r.protocol = u.Scheme
	r.host = u.Host
	if u.User != nil {
		r.username = u.User.Username()
		if pw, ok := u.User.Password(); ok {
			r.password = pw
		}
	}
}

// Run answers a single helper invocation. A "get" that cannot be
// served exits silently so git falls through to its other helpers.
func Run(store *auth.Store, op string, in io.Reader, out io.Writer) error {
	switch op {
	case "get":
		req, err := parseRequest(in)
		if err != nil {
			return err
		}
		return get(store, req, out)
	case "store", "erase":
		// Drain the request so git never sees a broken pipe.
		_, _ = io.Copy(io.Discard, in)
		return nil
	default:
		return &UnsupportedOperationError{Op: op}
	}
}

func get(store *auth.Store, req request, out io.Writer) error {
	// Only https remotes carry hubctl-managed credentials.
	if req.protocol != "https" {
		return cmdutil.SilentError
	}
	host := req.host
	if h, _, ok := strings.Cut(host, ":"); ok {
		host = h
	}
	if host == "" {
		return cmdutil.SilentError
	}

	token, _, ok := store.ActiveToken(host)
	if !ok {
		return cmdutil.SilentError
	}
	user, ok := store.ActiveUser(host)
	if !ok {
		return cmdutil.SilentError
	}

	// git sends the username from the remote URL when it has one; a
	// token for a different account must not be handed out for it. The
	// sentinel identity matches any account, in either position.
	if req.username != "" && user != auth.TokenUser &&
		!strings.EqualFold(req.username, user) && !strings.EqualFold(req.username, auth.TokenUser) {
		return cmdutil.SilentError
	}

	_, err := fmt.Fprintf(out, "protocol=https\nhost=%s\nusername=%s\npassword=%s\n", req.host, user, token)
	return err
}

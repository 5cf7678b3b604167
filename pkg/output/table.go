package output

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// ConfigRow is one resolved configuration key for `config list`.
type ConfigRow struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

func WriteConfigTable(w io.Writer, rows []ConfigRow) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	for _, r := range rows {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", r.Key, r.Value)
	}
	_ = tw.Flush()
}

// AliasRow is one alias expansion for `alias list`.
type AliasRow struct {
	Name      string `json:"name" yaml:"name"`
	Expansion string `json:"expansion" yaml:"expansion"`
}

func WriteAliasTable(w io.Writer, rows []AliasRow) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	for _, r := range rows {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", r.Name, r.Expansion)
	}
	_ = tw.Flush()
}

// HostStatus is the authentication state of one host for
// `auth status`.
type HostStatus struct {
	Host        string   `json:"host" yaml:"host"`
	ActiveUser  string   `json:"activeUser,omitempty" yaml:"activeUser,omitempty"`
	Users       []string `json:"users,omitempty" yaml:"users,omitempty"`
	TokenSource string   `json:"tokenSource" yaml:"tokenSource"`
	Token       string   `json:"token" yaml:"token"`
	GitProtocol string   `json:"gitProtocol" yaml:"gitProtocol"`
	Writeable   bool     `json:"writeable" yaml:"writeable"`
}

func WriteHostStatusTable(w io.Writer, rows []HostStatus) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "HOST\tUSER\tSOURCE\tTOKEN\tGIT_PROTOCOL")
	for _, r := range rows {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Host, r.ActiveUser, r.TokenSource, r.Token, r.GitProtocol)
	}
	_ = tw.Flush()
}

// MaskToken hides all but a short prefix of a credential for display.
func MaskToken(token string) string {
	const visible = 3
	if len(token) <= visible {
		return "***"
	}
	return token[:visible] + "****************"
}

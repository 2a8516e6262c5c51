package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/birbparty/go-confluence/sdk"
)

// contentRow is one line of content listings.
type contentRow struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Space string `json:"space,omitempty"`
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

func newContentRow(client *sdk.Client, c *sdk.Content) contentRow {
	row := contentRow{ID: c.ID, Type: c.Type, Title: c.Title, URL: webURL(client, c.Links)}
	if c.Space != nil {
		row.Space = c.Space.Key
	}
	return row
}

// webURL returns the browser URL of links, or "" when there is none.
func webURL(client *sdk.Client, links *sdk.Links) string {
	if links == nil || links.WebUI == "" {
		return ""
	}
	u, err := client.CreateWebUIURI(links)
	if err != nil {
		return ""
	}
	return u.String()
}

type contentList struct {
	Query   string       `json:"query,omitempty"`
	Results []contentRow `json:"results"`
	More    bool         `json:"more"`
}

func (l contentList) renderText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tSPACE\tTITLE")
	for _, r := range l.Results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Type, r.Space, r.Title)
	}
	return tw.Flush()
}

type contentView struct {
	contentRow
	Version int    `json:"version,omitempty"`
	Body    string `json:"body,omitempty"`
}

func (v contentView) renderText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", v.ID)
	fmt.Fprintf(tw, "Type:\t%s\n", v.Type)
	fmt.Fprintf(tw, "Title:\t%s\n", v.Title)
	if v.Space != "" {
		fmt.Fprintf(tw, "Space:\t%s\n", v.Space)
	}
	if v.Version > 0 {
		fmt.Fprintf(tw, "Version:\t%d\n", v.Version)
	}
	if v.URL != "" {
		fmt.Fprintf(tw, "URL:\t%s\n", v.URL)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if v.Body != "" {
		_, err := fmt.Fprintf(w, "\n%s\n", v.Body)
		return err
	}
	return nil
}

type spaceRow struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	Type   string `json:"type,omitempty"`
	Status string `json:"status,omitempty"`
	URL    string `json:"url,omitempty"`
}

func newSpaceRow(client *sdk.Client, s *sdk.Space) spaceRow {
	return spaceRow{Key: s.Key, Name: s.Name, Type: s.Type, Status: s.Status, URL: webURL(client, s.Links)}
}

func (r spaceRow) renderText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	fmt.Fprintf(tw, "Key:\t%s\n", r.Key)
	fmt.Fprintf(tw, "Name:\t%s\n", r.Name)
	if r.Type != "" {
		fmt.Fprintf(tw, "Type:\t%s\n", r.Type)
	}
	if r.Status != "" {
		fmt.Fprintf(tw, "Status:\t%s\n", r.Status)
	}
	if r.URL != "" {
		fmt.Fprintf(tw, "URL:\t%s\n", r.URL)
	}
	return tw.Flush()
}

type spaceList struct {
	Results []spaceRow `json:"results"`
	More    bool       `json:"more"`
}

func (l spaceList) renderText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tTYPE\tNAME")
	for _, r := range l.Results {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Key, r.Type, r.Name)
	}
	return tw.Flush()
}

type userView struct {
	DisplayName string `json:"displayName"`
	Username    string `json:"username,omitempty"`
	UserKey     string `json:"userKey,omitempty"`
	AccountID   string `json:"accountId,omitempty"`
	Email       string `json:"email,omitempty"`
}

func (v userView) renderText(w io.Writer) error {
	id := v.Username
	if id == "" {
		id = v.AccountID
	}
	_, err := fmt.Fprintf(w, "%s (%s)\n", v.DisplayName, id)
	return err
}

type systemInfoView struct {
	*sdk.SystemInfo
	Cloud bool `json:"cloud"`
}

func (v systemInfoView) renderText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	if v.SiteTitle != "" {
		fmt.Fprintf(tw, "Site:\t%s\n", v.SiteTitle)
	}
	fmt.Fprintf(tw, "Base URL:\t%s\n", v.BaseURL)
	fmt.Fprintf(tw, "Build:\t%s\n", v.BuildNumber)
	if v.CommitHash != "" {
		fmt.Fprintf(tw, "Commit:\t%s\n", v.CommitHash)
	}
	deployment := "server"
	if v.Cloud {
		deployment = "cloud"
	}
	fmt.Fprintf(tw, "Deployment:\t%s\n", deployment)
	return tw.Flush()
}

type messageView struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

func (v messageView) renderText(w io.Writer) error {
	_, err := fmt.Fprintln(w, v.Message)
	return err
}

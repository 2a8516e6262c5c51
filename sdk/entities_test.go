package sdk

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestBodies(t *testing.T) {
	page, err := (&NewContent{Title: "Release notes", SpaceKey: "DEV", Body: "Hello", ParentID: "7"}).content()
	require.NoError(t, err)
	post, err := (&NewContent{Type: ContentTypeBlogPost, Title: "News", SpaceKey: "OPS"}).content()
	require.NoError(t, err)

	bodies := []struct {
		name string
		body interface{}
	}{
		{"page", page},
		{"blogpost", post},
		{"space", newSpace("DOC", "Documentation", "All the docs")},
		{"space_without_description", newSpace("DOC", "Documentation", "")},
		{"labels", []Label{{Prefix: "global", Name: "release"}}},
	}

	var buf bytes.Buffer
	for _, b := range bodies {
		payload, _, err := encodeBody(b.body)
		require.NoError(t, err)
		buf.WriteString(b.name + ": ")
		buf.Write(payload)
		buf.WriteByte('\n')
	}

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "request_bodies", buf.Bytes())
}

func TestDecodePage(t *testing.T) {
	data, err := os.ReadFile("testdata/page.json")
	require.NoError(t, err)

	var page Content
	require.NoError(t, json.Unmarshal(data, &page))

	assert.Equal(t, "65601", page.ID)
	assert.Equal(t, ContentTypePage, page.Type)
	assert.Equal(t, "Release notes", page.Title)
	require.NotNil(t, page.Space)
	assert.Equal(t, "DEV", page.Space.Key)
	require.NotNil(t, page.Version)
	assert.Equal(t, 7, page.Version.Number)
	require.NotNil(t, page.Version.When)
	assert.Equal(t, 2024, page.Version.When.Year())
	assert.Equal(t, "jsmith", page.Version.By.Username)
	require.Len(t, page.Ancestors, 1)
	assert.Equal(t, "65537", page.Ancestors[0].ID)
	assert.Equal(t, "<p>Shipped.</p>", page.Body.Storage.Value)
	require.NotNil(t, page.Metadata)
	require.NotNil(t, page.Metadata.Labels)
	assert.Equal(t, "release", page.Metadata.Labels.Results[0].Name)
	require.NotNil(t, page.Links)
	assert.Equal(t, "http://localhost:8090/confluence", page.Links.Base)
	assert.Equal(t, "/display/DEV/Release+notes", page.Links.WebUI)
	assert.Equal(t, "/x/QQAB", page.Links.TinyUI)
}

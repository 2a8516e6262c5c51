package cli

import (
	"encoding/json"
	"testing"

	"github.com/birbparty/go-confluence/cql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryFlagsBuild(t *testing.T) {
	tests := []struct {
		name  string
		flags QueryFlags
		want  string
	}{
		{
			name:  "single condition",
			flags: QueryFlags{Spaces: []string{"DEV"}},
			want:  `space = "DEV"`,
		},
		{
			name:  "and by default",
			flags: QueryFlags{Spaces: []string{"DEV"}, Types: []string{"page"}},
			want:  `(space = "DEV" and type = "page")`,
		},
		{
			name:  "type names are case-insensitive",
			flags: QueryFlags{Types: []string{"BlogPost"}},
			want:  `type = "blogpost"`,
		},
		{
			name:  "lists become in",
			flags: QueryFlags{Spaces: []string{"DEV", "OPS"}, Labels: []string{"a", "b"}, Or: true},
			want:  `(space in ("DEV", "OPS") or label in ("a", "b"))`,
		},
		{
			name:  "dates and users",
			flags: QueryFlags{CreatedAfter: "2024-01-01", ModifiedAfter: "-4w", Creator: "me", Contributor: "jdoe"},
			want:  `(created > "2024-01-01" and lastmodified > -4w and creator = currentUser() and contributor = "jdoe")`,
		},
		{
			name:  "text title and ancestor",
			flags: QueryFlags{TitleContains: `say "hi"`, Text: "runbook", Ancestor: 42},
			want:  `(title ~ "say \"hi\"" and text ~ "runbook" and ancestor = 42)`,
		},
		{
			name:  "order by",
			flags: QueryFlags{Labels: []string{"release"}, OrderBy: "Created:DESC"},
			want:  `label = "release" order by created desc`,
		},
		{
			name:  "order by defaults to ascending",
			flags: QueryFlags{Types: []string{"page", "blogpost"}, OrderBy: "title"},
			want:  `type in ("page", "blogpost") order by title asc`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, err := tt.flags.Build()
			require.NoError(t, err)
			assert.Equal(t, tt.want, clause.String())
		})
	}
}

func TestQueryFlagsBuild_Errors(t *testing.T) {
	tests := []struct {
		name  string
		flags QueryFlags
	}{
		{"no flags", QueryFlags{}},
		{"bad offset", QueryFlags{CreatedAfter: "last tuesday"}},
		{"unknown order field", QueryFlags{Spaces: []string{"DEV"}, OrderBy: "popularity"}},
		{"bad direction", QueryFlags{Spaces: []string{"DEV"}, OrderBy: "created:sideways"}},
		{"empty space key", QueryFlags{Spaces: []string{""}}},
		{"unknown type", QueryFlags{Types: []string{"bogus"}}},
		{"unknown type among several", QueryFlags{Types: []string{"page", "wiki"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.flags.Build()
			assert.ErrorIs(t, err, cql.ErrInvalidArgument)
		})
	}
}

func TestCQLCommand(t *testing.T) {
	isolateEnv(t)

	res := run(t, "cql", "--space", "DEV", "--type", "page", "--label", "release,notes")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "(space = \"DEV\" and type = \"page\" and label in (\"release\", \"notes\"))\n", res.stdout)
}

func TestCQLCommand_JSON(t *testing.T) {
	isolateEnv(t)

	res := run(t, "cql", "--format", "json", "--space", "DEV")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	var resp struct {
		Status string    `json:"status"`
		Data   queryView `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, `space = "DEV"`, resp.Data.Query)
}

func TestCQLCommand_InvalidQuery(t *testing.T) {
	isolateEnv(t)

	res := run(t, "cql")
	assert.Equal(t, ExitCommandError, res.code)
	assert.Contains(t, res.stderr, "Error [E002]")
	assert.Contains(t, res.stderr, "no query flags")
	assert.Empty(t, res.stdout)

	res = run(t, "cql", "--format", "json", "--created-after", "soon")
	assert.Equal(t, ExitCommandError, res.code)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInvalidQuery, resp.Error.Code)
}

func TestCQLCommand_NeedsNoConfiguration(t *testing.T) {
	isolateEnv(t)

	res := run(t, "cql", "--config", "/nonexistent/confluence.yaml", "--creator", "me")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "creator = currentUser()\n", res.stdout)
}

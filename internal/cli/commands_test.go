package cli

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/birbparty/go-confluence/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchHit(id, title string) map[string]interface{} {
	return map[string]interface{}{
		"id":     id,
		"type":   "page",
		"title":  title,
		"space":  map[string]interface{}{"key": "DEV"},
		"_links": map[string]interface{}{"webui": "/display/DEV/" + id},
	}
}

func TestSearchCommand(t *testing.T) {
	server := newServer(t)
	server.Handle("GET content/search", func(w http.ResponseWriter, r *http.Request) (int, interface{}) {
		return http.StatusOK, map[string]interface{}{
			"results": []interface{}{searchHit("101", "Release notes"), searchHit("102", "Runbook")},
			"start":   0,
			"limit":   5,
			"size":    2,
			"_links":  map[string]interface{}{"base": server.URL},
		}
	})

	res := run(t, "search", "--space", "DEV", "--type", "page", "--limit", "5")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "ID")
	assert.Contains(t, res.stdout, "Release notes")
	assert.Contains(t, res.stdout, "Runbook")

	req := server.LastRequest()
	assert.Equal(t, testutil.APIPrefix+"content/search", req.Path)
	query, err := url.ParseQuery(req.Query)
	require.NoError(t, err)
	assert.Equal(t, `(space = "DEV" and type = "page")`, query.Get("cql"))
	assert.Equal(t, "5", query.Get("limit"))
	assert.Equal(t, "space", query.Get("expand"))

	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("jsmith:secret"))
	assert.Equal(t, want, req.Headers.Get("Authorization"))
}

func TestSearchCommand_AllPagesJSON(t *testing.T) {
	server := newServer(t)
	server.Handle("GET content/search", func(w http.ResponseWriter, r *http.Request) (int, interface{}) {
		if r.URL.Query().Get("start") == "1" {
			return http.StatusOK, map[string]interface{}{
				"results": []interface{}{searchHit("102", "Runbook")},
				"start":   1,
				"limit":   1,
				"size":    1,
			}
		}
		return http.StatusOK, map[string]interface{}{
			"results": []interface{}{searchHit("101", "Release notes")},
			"start":   0,
			"limit":   1,
			"size":    1,
			"_links": map[string]interface{}{
				"base": server.URL,
				"next": "/rest/api/content/search?cql=label%3D%22ops%22&limit=1&start=1",
			},
		}
	})

	res := run(t, "search", "--label", "ops", "--limit", "1", "--all", "--format", "json")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	var resp struct {
		Status string      `json:"status"`
		Data   contentList `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, `label = "ops"`, resp.Data.Query)
	require.Len(t, resp.Data.Results, 2)
	assert.Equal(t, "101", resp.Data.Results[0].ID)
	assert.Equal(t, "102", resp.Data.Results[1].ID)
	assert.Equal(t, server.URL+"/display/DEV/101", resp.Data.Results[0].URL)
	assert.False(t, resp.Data.More)
	assert.Equal(t, 2, server.RequestCount())
}

func TestSearchCommand_MoreResults(t *testing.T) {
	server := newServer(t)
	server.Respond("GET content/search", http.StatusOK, map[string]interface{}{
		"results": []interface{}{searchHit("101", "Release notes")},
		"limit":   1,
		"size":    1,
		"_links":  map[string]interface{}{"next": "/rest/api/content/search?start=1"},
	})

	res := run(t, "search", "--space", "DEV", "--limit", "1", "--verbose")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stderr, "use --all")
	assert.Contains(t, res.stderr, `CQL: space = "DEV"`)
	assert.Equal(t, 1, server.RequestCount())
}

func TestSearchCommand_InvalidFlags(t *testing.T) {
	server := newServer(t)

	res := run(t, "search")
	assert.Equal(t, ExitCommandError, res.code)
	assert.Contains(t, res.stderr, "E002")

	res = run(t, "search", "--space", "DEV", "--limit", "0")
	assert.Equal(t, ExitCommandError, res.code)
	assert.Contains(t, res.stderr, "--limit")
	assert.Zero(t, server.RequestCount())
}

func TestSpaceGetCommand(t *testing.T) {
	server := newServer(t)
	server.Respond("GET space/DEV", http.StatusOK, map[string]interface{}{
		"key":    "DEV",
		"name":   "Development",
		"type":   "global",
		"status": "current",
		"_links": map[string]interface{}{"base": server.URL, "webui": "/display/DEV"},
	})

	res := run(t, "space", "get", "DEV")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Development")
	assert.Contains(t, res.stdout, "global")
	assert.Contains(t, res.stdout, server.URL+"/display/DEV")

	res = run(t, "space", "get", "DEV", "--format", "json")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	var resp struct {
		Data spaceRow `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &resp))
	assert.Equal(t, spaceRow{
		Key: "DEV", Name: "Development", Type: "global", Status: "current",
		URL: server.URL + "/display/DEV",
	}, resp.Data)
}

func TestSpaceGetCommand_NotFound(t *testing.T) {
	server := newServer(t)
	server.WithErrorResponse("GET space/NOPE", http.StatusNotFound, "No space with key : NOPE")

	res := run(t, "space", "get", "NOPE", "--format", "json")
	assert.Equal(t, ExitFailure, res.code)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "NOPE")
	assert.NotNil(t, resp.Error.Details)
}

func TestSpaceListCommand(t *testing.T) {
	server := newServer(t)
	server.Respond("GET space", http.StatusOK, map[string]interface{}{
		"results": []interface{}{
			map[string]interface{}{"key": "DEV", "name": "Development", "type": "global"},
			map[string]interface{}{"key": "~jsmith", "name": "Jane Smith", "type": "personal"},
		},
		"size": 2,
	})

	res := run(t, "space", "list", "--type", "global", "--limit", "10")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "KEY")
	assert.Contains(t, res.stdout, "Development")
	assert.Contains(t, res.stdout, "~jsmith")

	query, err := url.ParseQuery(server.LastRequest().Query)
	require.NoError(t, err)
	assert.Equal(t, "global", query.Get("type"))
	assert.Equal(t, "10", query.Get("limit"))
}

func TestContentGetCommand(t *testing.T) {
	server := newServer(t)
	server.Respond("GET content/65601", http.StatusOK, map[string]interface{}{
		"id":      "65601",
		"type":    "page",
		"title":   "Release notes",
		"space":   map[string]interface{}{"key": "DEV"},
		"version": map[string]interface{}{"number": 7},
		"body": map[string]interface{}{
			"storage": map[string]interface{}{"value": "<p>Shipped.</p>", "representation": "storage"},
		},
	})

	res := run(t, "content", "get", "65601", "--body")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Release notes")
	assert.Contains(t, res.stdout, "7")
	assert.Contains(t, res.stdout, "<p>Shipped.</p>")

	query, err := url.ParseQuery(server.LastRequest().Query)
	require.NoError(t, err)
	assert.Equal(t, "space,version,body.storage", query.Get("expand"))
}

func TestWhoamiCommand(t *testing.T) {
	newServer(t)

	res := run(t, "whoami")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "Jane Smith (jsmith)\n", res.stdout)
}

func TestWhoamiCommand_Unauthorized(t *testing.T) {
	server := newServer(t)
	server.WithErrorResponse("GET user/current", http.StatusUnauthorized, "Not authenticated")

	res := run(t, "whoami")
	assert.Equal(t, ExitFailure, res.code)
	assert.Contains(t, res.stderr, "Error [E005]")
}

func TestSysinfoCommand(t *testing.T) {
	server := newServer(t)

	res := run(t, "sysinfo")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Test Wiki")
	assert.Contains(t, res.stdout, "8703")
	assert.Contains(t, res.stdout, "server")
	assert.Contains(t, res.stdout, server.URL)
}

func TestCommands_ConfigFileAndBaseURLFlag(t *testing.T) {
	server := newServer(t)
	t.Setenv("CONFLUENCE_BASE_URL", "")
	t.Setenv("CONFLUENCE_USERNAME", "")
	t.Setenv("CONFLUENCE_PASSWORD", "")

	path := filepath.Join(t.TempDir(), "confluence.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: http://unreachable.invalid\nauth:\n  token: pat-123\nmax_retries: 0\n"), 0644))

	res := run(t, "whoami", "--config", path, "--base-url", server.URL)
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "Bearer pat-123", server.LastRequest().Headers.Get("Authorization"))
}

func TestCommands_MissingBaseURL(t *testing.T) {
	isolateEnv(t)

	res := run(t, "whoami")
	assert.Equal(t, ExitCommandError, res.code)
	assert.Contains(t, res.stderr, "Error [E003]")
	assert.Contains(t, res.stderr, "CONFLUENCE_BASE_URL")
}

func TestCommands_ServerErrorIsUnavailable(t *testing.T) {
	server := newServer(t)
	server.WithErrorResponse("GET settings/systemInfo", http.StatusServiceUnavailable, "maintenance")

	path := filepath.Join(t.TempDir(), "confluence.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_retries: 0\n"), 0644))

	res := run(t, "sysinfo", "--config", path)
	assert.Equal(t, ExitFailure, res.code)
	assert.Contains(t, res.stderr, "Error [E006]")
	assert.Equal(t, 1, server.RequestCount())
}

func TestRootCommand_Errors(t *testing.T) {
	isolateEnv(t)

	res := run(t, "cql", "--space", "DEV", "--format", "xml")
	assert.Equal(t, ExitCommandError, res.code)
	assert.Contains(t, res.stderr, "invalid format")

	res = run(t, "frobnicate")
	assert.Equal(t, ExitCommandError, res.code)
	assert.Contains(t, res.stderr, "unknown command")

	res = run(t, "space", "get")
	assert.Equal(t, ExitCommandError, res.code)
}

func TestCacheClearCommand_RequiresCache(t *testing.T) {
	isolateEnv(t)

	res := run(t, "cache", "clear")
	assert.Equal(t, ExitCommandError, res.code)
	assert.Contains(t, res.stderr, "Error [E003]")
}

package docs

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	"github.com/okian/catprofile/internal/config"
)

// resetPublished empties the registry for one test and restores it after.
func resetPublished(t *testing.T) {
	t.Helper()
	prev := published.ReadDoc()
	published.set("")
	t.Cleanup(func() { published.set(prev) })
}

func TestRead_BeforeGenerate(t *testing.T) {
	resetPublished(t)

	_, err := Read()
	require.ErrorIs(t, err, ErrNotGenerated)
}

func TestRead_AfterGenerate(t *testing.T) {
	resetPublished(t)

	raw, err := Generate(Info{ServerURL: "http://localhost:3000"})
	require.NoError(t, err)

	doc, err := Read()
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), doc)
}

func TestInfoFromConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		info := InfoFromConfig(config.New(ctx))
		assert.Equal(t, "Developer", info.ContactName)
		assert.Equal(t, "developer@example.com", info.ContactEmail)
		assert.Equal(t, "http://localhost:3000", info.ServerURL)
		assert.Equal(t, "Development server", info.ServerDescription)
	})

	t.Run("empty profile values keep defaults", func(t *testing.T) {
		cfg := config.New(ctx)
		empty := ""
		cfg.UserName, cfg.UserEmail = &empty, &empty

		info := InfoFromConfig(cfg)
		assert.Equal(t, "Developer", info.ContactName)
		assert.Equal(t, "developer@example.com", info.ContactEmail)
	})

	t.Run("production with profile", func(t *testing.T) {
		cfg := config.New(ctx)
		name, email := "A B", "a@b.com"
		cfg.UserName, cfg.UserEmail = &name, &email
		cfg.Environment = "production"
		cfg.FlyAppName = "catprofile"

		info := InfoFromConfig(cfg)
		assert.Equal(t, "A B", info.ContactName)
		assert.Equal(t, "a@b.com", info.ContactEmail)
		assert.Equal(t, "https://catprofile.fly.dev", info.ServerURL)
		assert.Equal(t, "Production server", info.ServerDescription)
	})
}

func TestGenerate(t *testing.T) {
	info := Info{ContactName: "Dev", ContactEmail: "dev@example.com", ServerURL: "http://localhost:4000", ServerDescription: "Development server"}

	raw, err := Generate(info)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.Equal(t, "3.0.0", doc["openapi"])

	docInfo := doc["info"].(map[string]any)
	assert.Equal(t, "Profile API with Cat Facts", docInfo["title"])
	assert.Equal(t, "1.0.0", docInfo["version"])
	assert.Equal(t, map[string]any{"name": "Dev", "email": "dev@example.com"}, docInfo["contact"])

	servers := doc["servers"].([]any)
	require.Len(t, servers, 1)
	assert.Equal(t, "http://localhost:4000", servers[0].(map[string]any)["url"])

	paths := doc["paths"].(map[string]any)
	for _, p := range []string{"/", "/me", "/health"} {
		assert.Contains(t, paths, p)
	}

	schemas := doc["components"].(map[string]any)["schemas"].(map[string]any)
	for _, s := range []string{"UserProfile", "Error", "Health", "Welcome"} {
		assert.Contains(t, schemas, s)
	}

	t.Run("published through swag", func(t *testing.T) {
		fromSwag, err := swag.ReadDoc(InstanceName)
		require.NoError(t, err)
		assert.JSONEq(t, string(raw), fromSwag)

		fromRead, err := Read()
		require.NoError(t, err)
		assert.Equal(t, fromSwag, fromRead)
	})
}

func TestBuild_RefsResolve(t *testing.T) {
	doc := Build(Info{})

	for path, item := range doc.Paths {
		require.NotNil(t, item.Get, path)
		for code, resp := range item.Get.Responses {
			for _, media := range resp.Content {
				name := media.Schema.Ref[len("#/components/schemas/"):]
				assert.Contains(t, doc.Components.Schemas, name, "%s %s", path, code)
			}
		}
	}
}

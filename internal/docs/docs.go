// Package docs generates the OpenAPI document once at startup and publishes
// it through the swag registry, where the HTTP layer reads it back.
package docs

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/swaggo/swag"

	"github.com/okian/catprofile/internal/config"
	"github.com/okian/catprofile/internal/domain/profile"
)

// InstanceName is the swag registry key for this API.
const InstanceName = "catprofile"

const (
	openAPIVersion = "3.0.0"
	apiVersion     = "1.0.0"
	apiTitle       = "Profile API with Cat Facts"
	apiDescription = "A simple API that returns user profile information along with a random cat fact"

	defaultContactName  = "Developer"
	defaultContactEmail = "developer@example.com"
)

// Info holds the values that vary per deployment.
type Info struct {
	ContactName       string
	ContactEmail      string
	ServerURL         string
	ServerDescription string
}

// InfoFromConfig derives document info from the process config.
func InfoFromConfig(cfg *config.Config) Info {
	info := Info{
		ContactName:       defaultContactName,
		ContactEmail:      defaultContactEmail,
		ServerURL:         cfg.ServerURL(),
		ServerDescription: "Development server",
	}
	if profile.IsSet(cfg.UserName) {
		info.ContactName = *cfg.UserName
	}
	if profile.IsSet(cfg.UserEmail) {
		info.ContactEmail = *cfg.UserEmail
	}
	if cfg.IsProduction() {
		info.ServerDescription = "Production server"
	}
	return info
}

// registry is what swag hands back from ReadDoc.
type registry struct {
	mu  sync.RWMutex
	raw string
}

func (r *registry) ReadDoc() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.raw
}

func (r *registry) set(raw string) {
	r.mu.Lock()
	r.raw = raw
	r.mu.Unlock()
}

var published = &registry{} //nolint:gochecknoglobals // swag registration is process-wide

func init() { //nolint:gochecknoinits // swag requires registration by name
	swag.Register(InstanceName, published)
}

// Build returns the OpenAPI document for info.
func Build(info Info) *Document {
	return &Document{
		OpenAPI: openAPIVersion,
		Info: DocInfo{
			Title:       apiTitle,
			Version:     apiVersion,
			Description: apiDescription,
			Contact:     Contact{Name: info.ContactName, Email: info.ContactEmail},
		},
		Servers: []Server{{URL: info.ServerURL, Description: info.ServerDescription}},
		Tags: []Tag{
			{Name: "Profile", Description: "User profile operations"},
			{Name: "System", Description: "Service metadata"},
		},
		Paths:      paths(),
		Components: Components{Schemas: schemas()},
	}
}

// Generate builds the document, stores it in the swag registry and returns
// the serialised JSON.
func Generate(info Info) ([]byte, error) {
	raw, err := json.MarshalIndent(Build(info), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerate, err)
	}
	published.set(string(raw))
	return raw, nil
}

// Read returns the published document. It fails with ErrNotGenerated until
// Generate has run.
func Read() (string, error) {
	doc, err := swag.ReadDoc(InstanceName)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotGenerated, err)
	}
	if doc == "" {
		return "", ErrNotGenerated
	}
	return doc, nil
}

// paths is the only route description; handlers carry no annotations.
func paths() map[string]PathItem {
	return map[string]PathItem{
		"/": {Get: &Operation{
			Tags:        []string{"System"},
			Summary:     "Welcome message",
			Description: "Lists the available endpoints",
			OperationID: "getWelcome",
			Responses: map[string]Response{
				"200": {Description: "Welcome payload", Content: jsonContent(ref("Welcome"))},
			},
		}},
		"/me": {Get: &Operation{
			Tags:        []string{"Profile"},
			Summary:     "Get user profile with cat fact",
			Description: "Returns the configured profile, the current timestamp and a random cat fact",
			OperationID: "getProfile",
			Responses: map[string]Response{
				"200": {Description: "Successful response with user profile and cat fact", Content: jsonContent(ref("UserProfile"))},
				"500": {Description: "Internal server error", Content: jsonContent(ref("Error"))},
			},
		}},
		"/health": {Get: &Operation{
			Tags:        []string{"System"},
			Summary:     "Health check",
			Description: "Reports uptime and environment",
			OperationID: "getHealth",
			Responses: map[string]Response{
				"200": {Description: "Service is healthy", Content: jsonContent(ref("Health"))},
			},
		}},
	}
}

func schemas() map[string]*Schema {
	return map[string]*Schema{
		"UserProfile": {
			Type: "object",
			Properties: map[string]*Schema{
				"status": str("Response status", profile.StatusSuccess),
				"user": {
					Type: "object",
					Properties: map[string]*Schema{
						"email": {Type: "string", Nullable: true, Example: "user@example.com", Description: "User email address"},
						"name":  {Type: "string", Nullable: true, Example: "John Doe", Description: "User full name"},
						"stack": {Type: "string", Nullable: true, Example: "Backend Development", Description: "User technical stack/specialization"},
					},
				},
				"timestamp": {Type: "string", Format: "date-time", Example: "2024-01-01T12:00:00.000Z", Description: "ISO timestamp of the request"},
				"fact":      str("Random cat fact from external API or fallback fact", "Cats can jump up to six times their length."),
				"note":      str("Whether user data came from the environment", profile.NoteLoaded),
			},
		},
		"Error": {
			Type: "object",
			Properties: map[string]*Schema{
				"status":  str("Error status", profile.StatusError),
				"message": str("Error message", profile.GenericErrorMessage),
				"error":   str("Error detail, omitted in production", nil),
			},
		},
		"Health": {
			Type: "object",
			Properties: map[string]*Schema{
				"status":      str("Health status", profile.StatusHealthy),
				"timestamp":   {Type: "string", Format: "date-time", Description: "ISO timestamp of the check"},
				"uptime":      {Type: "number", Description: "Seconds since process start", Example: 12.5},
				"environment": str("Deployment environment", "development"),
			},
		},
		"Welcome": {
			Type: "object",
			Properties: map[string]*Schema{
				"message":       str("Welcome message", nil),
				"documentation": str("Documentation path", "/api-docs"),
				"endpoints": {
					Type: "array",
					Items: &Schema{
						Type: "object",
						Properties: map[string]*Schema{
							"method":      str("HTTP method", "GET"),
							"path":        str("Route path", "/me"),
							"description": str("What the route returns", nil),
						},
					},
				},
			},
		},
	}
}

package collaborator

import (
	"encoding/json"
	"reflect"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
)

// Response shapes requested from the model. They stay separate from the
// domain types so that schema tags do not leak into other adapters.

type classifyResponse struct {
	ClassifiedRequirements []classifiedItem `json:"classifiedRequirements"`
}

type classifiedItem struct {
	Requirement string `json:"requirement" jsonschema:"description=The requirement text copied exactly from the input"`
	Type        string `json:"type" jsonschema:"enum=functional,enum=non-functional,enum=domain,enum=inverse"`
}

type storiesResponse struct {
	UserStories []storyItem `json:"userStories"`
}

type storyItem struct {
	UserPersona        string   `json:"userPersona" jsonschema:"description=Who wants the feature"`
	Feature            string   `json:"feature" jsonschema:"description=What they want to do"`
	Benefit            string   `json:"benefit" jsonschema:"description=Why they want it"`
	AcceptanceCriteria []string `json:"acceptanceCriteria"`
}

type stakeholdersResponse struct {
	Stakeholders []stakeholderItem `json:"stakeholders"`
}

type stakeholderItem struct {
	Role        string `json:"role"`
	Description string `json:"description" jsonschema:"description=Their interest in the system"`
}

type initialResponse struct {
	Requirements []requirementItem `json:"requirements"`
}

type conversationResponse struct {
	UpdatedRequirements []requirementItem `json:"updatedRequirements"`
	FollowUpQuestion    string            `json:"followUpQuestion"`
}

type requirementItem struct {
	ID          requirementID `json:"id"`
	Type        string        `json:"type" jsonschema:"enum=functional,enum=non-functional,enum=domain,enum=inverse"`
	Description string        `json:"description"`
	Priority    string        `json:"priority" jsonschema:"enum=high,enum=medium,enum=low"`
}

// requirementID accepts both string and numeric IDs.
type requirementID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *requirementID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = requirementID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*id = requirementID(n.String())
		return nil
	}
	*id = ""
	return nil
}

// JSONSchema describes the ID as a string.
func (requirementID) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string"}
}

var schemaCache sync.Map

// schemaHint returns the prompt suffix describing T.
func schemaHint[T any]() string {
	return schemaHintFor(new(T))
}

// schemaHintFor returns the prompt suffix describing the type v points to.
func schemaHintFor(v any) string {
	t := reflect.TypeOf(v)
	if cached, ok := schemaCache.Load(t); ok {
		return cached.(string)
	}

	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
		ExpandedStruct:            true,
	}
	schema := r.Reflect(v)
	schema.Version = ""

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return ""
	}
	hint := "\n\nRespond only with JSON matching this schema:\n" + string(data)
	schemaCache.Store(t, hint)
	return hint
}

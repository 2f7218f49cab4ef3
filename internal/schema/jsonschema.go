package schema

import (
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/hochfrequenz/acc/internal/domain"
)

var (
	schemaOnce      sync.Once
	issueArrayJSON  string
	fixResultJSON   string
	schemaRenderErr error
)

func render() {
	r := &jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
	}

	issues, err := json.Marshal(r.Reflect([]domain.LintIssue{}))
	if err != nil {
		schemaRenderErr = err
		return
	}
	fix, err := json.Marshal(r.Reflect(&domain.FixResult{}))
	if err != nil {
		schemaRenderErr = err
		return
	}
	issueArrayJSON = string(issues)
	fixResultJSON = string(fix)
}

// IssueArraySchema returns the JSON Schema of the lint issue array as compact JSON
func IssueArraySchema() (string, error) {
	schemaOnce.Do(render)
	return issueArrayJSON, schemaRenderErr
}

// FixResultSchema returns the JSON Schema of a fix result as compact JSON
func FixResultSchema() (string, error) {
	schemaOnce.Do(render)
	return fixResultJSON, schemaRenderErr
}

package schemas

import "fmt"

// DocumentContext scopes every write and read to one ontology document inside
// a project branch. Its fields become statement parameters.
type DocumentContext struct {
	ProjectID  string `json:"project_id" mapstructure:"project_id"`
	BranchID   string `json:"branch_id" mapstructure:"branch_id"`
	DocumentID string `json:"document_id" mapstructure:"document_id"`
}

// Validate checks that all identifiers are present.
func (c DocumentContext) Validate() error {
	if c.ProjectID == "" || c.BranchID == "" || c.DocumentID == "" {
		return fmt.Errorf("document context requires project, branch and document ids (got %s)", c)
	}
	return nil
}

// Params returns the statement parameters for the context.
func (c DocumentContext) Params() map[string]any {
	return map[string]any{
		PropProjectID:          c.ProjectID,
		PropBranchID:           c.BranchID,
		PropOntologyDocumentID: c.DocumentID,
	}
}

// DocumentProperties identifies the document node.
func (c DocumentContext) DocumentProperties() Properties {
	return Props(map[string]any{PropOntologyDocumentID: c.DocumentID})
}

func (c DocumentContext) String() string {
	return fmt.Sprintf("project=%s branch=%s document=%s", c.ProjectID, c.BranchID, c.DocumentID)
}

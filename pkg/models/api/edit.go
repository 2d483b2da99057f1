package api

// Edit is one row submission from the remediation grid. A field mapped
// to null clears the tag; fields not present are left untouched.
type Edit struct {
	ResourceID string             `json:"resource_id"`
	Fields     map[string]*string `json:"fields"`
}

// EditBatch is the body of an edits request.
type EditBatch struct {
	Edits []Edit `json:"edits"`
}

// ApplyResult reports how a batch landed. Ignored lists resource ids
// unknown to the working table; those edits were dropped.
type ApplyResult struct {
	Applied int      `json:"applied"`
	Ignored []string `json:"ignored,omitempty"`
}

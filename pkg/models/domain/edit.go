package domain

// FieldEdit overwrites tag fields on one resource. A key mapped to nil
// (or the empty string) clears the field; unsupplied fields are left
// untouched.
type FieldEdit struct {
	ResourceID string
	Fields     map[string]*string
}

// EditBatch is one submission from the remediation grid.
type EditBatch struct {
	Edits []FieldEdit
}

// ApplyResult reports the outcome of an edit batch. Ignored lists
// resource ids that were not present in the table; those edits are
// dropped without aborting the batch.
type ApplyResult struct {
	Applied int
	Ignored []string
}

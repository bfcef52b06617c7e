package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for upload run identifiers.
	FieldRunID = "run_id"
	// FieldFilename is the standardized structured logging key for submission filenames.
	FieldFilename = "filename"
	// FieldRow is the standardized structured logging key for spreadsheet row numbers.
	FieldRow = "row"
	// FieldMethod is the standardized structured logging key for the match method that resolved a file.
	FieldMethod = "method"
	// FieldScore is the standardized structured logging key for similarity scores.
	FieldScore = "score"
	// FieldMode is the standardized structured logging key for the upload mode (individual or group).
	FieldMode = "mode"
	// FieldEventType is the standardized structured logging key describing what happened.
	FieldEventType = "event_type"
	// FieldErrorHint is the standardized structured logging key for a suggested next step.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized structured logging key for the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldDecisionType is the standardized structured logging key for match decision records.
	FieldDecisionType = "decision_type"
)

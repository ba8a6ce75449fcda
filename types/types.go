package types

// MergeRequest holds the three line lists of a merge coming from the editor
type MergeRequest struct {
	Ancestor []string
	A        []string
	B        []string
	// Mode is "lines", "words" or "runes"; empty uses the configured mode
	Mode string
}

// BufferMergeRequest names editor buffers instead of carrying their lines.
// The merge result is written into Target.
type BufferMergeRequest struct {
	Target   int
	Ancestor int
	A        int
	B        int
}

// ConflictInfo describes one conflict for display
type ConflictInfo struct {
	Message string
	A       string // change from the first branch
	B       string // change from the second branch
}

// MergeOutcome is the result of a merge request. Lines is nil when the merge
// has conflicts.
type MergeOutcome struct {
	Lines     []string
	Conflicts []ConflictInfo
}

// HasConflicts reports whether the merge failed
func (o *MergeOutcome) HasConflicts() bool {
	return len(o.Conflicts) > 0
}

// ToLuaFormat converts a ConflictInfo to a Lua-friendly map format
func (c ConflictInfo) ToLuaFormat() map[string]any {
	return map[string]any{
		"message": c.Message,
		"a":       c.A,
		"b":       c.B,
	}
}

// ToLuaFormat converts a MergeOutcome to a Lua-friendly map format.
// Additional fields can be passed as key-value pairs: ToLuaFormat("target", 3)
func (o *MergeOutcome) ToLuaFormat(additionalFields ...any) map[string]any {
	conflicts := make([]map[string]any, len(o.Conflicts))
	for i, c := range o.Conflicts {
		conflicts[i] = c.ToLuaFormat()
	}

	lines := o.Lines
	if lines == nil {
		lines = []string{}
	}

	luaFormat := map[string]any{
		"ok":        !o.HasConflicts(),
		"lines":     lines,
		"conflicts": conflicts,
	}

	for i := 0; i < len(additionalFields)-1; i += 2 {
		if key, ok := additionalFields[i].(string); ok {
			luaFormat[key] = additionalFields[i+1]
		}
	}
	return luaFormat
}

package todo

import "github.com/minhvu/todopad/internal/model"

// MergeStrategy reconciles an edited item with its prior value. Two
// named strategies exist so both can be unit-tested on their own rather
// than living as implicit update behavior.
type MergeStrategy func(existing, incoming model.Todo) model.Todo

// ReplaceMerge is the authenticated-mode strategy: the server's returned
// representation is authoritative and replaces the prior value wholesale.
func ReplaceMerge(_, incoming model.Todo) model.Todo {
	return incoming
}

// ShallowMerge is the guest-mode strategy: the form-editable fields of
// the incoming value overwrite the prior value, while fields the edit
// form never carries (identifier, creation timestamp, calendar
// reference) are preserved from the existing entry.
func ShallowMerge(existing, incoming model.Todo) model.Todo {
	merged := existing
	merged.Title = incoming.Title
	merged.Description = incoming.Description
	merged.IsCompleted = incoming.IsCompleted
	merged.DueDate = incoming.DueDate
	return merged
}

// Package query builds the ordered predicate lists consumed by metadata
// store implementations. Building is pure: no I/O, fully deterministic
// given its inputs.
package query

import "strings"

// Op identifies the kind of a predicate.
type Op string

// Predicate operations.
const (
	// OpAccess matches records the user may see: owner equality OR the
	// user's email listed in the record's users. A single combined
	// predicate; splitting it into two sequential filters would wrongly
	// require both conditions.
	OpAccess Op = "access"

	// OpOwnerEq matches records owned by exactly one owner id. Used by
	// usage aggregation, where shared-with-me records are out of scope.
	OpOwnerEq Op = "owner_eq"

	// OpTypeIn matches records whose type is in a value set.
	OpTypeIn Op = "type_in"

	// OpNameContains matches records whose name contains a substring,
	// case-insensitively.
	OpNameContains Op = "name_contains"

	// OpOrderAsc and OpOrderDesc order the result by a field.
	OpOrderAsc  Op = "order_asc"
	OpOrderDesc Op = "order_desc"

	// OpLimit caps the result count.
	OpLimit Op = "limit"
)

// Sortable record fields. Stores must reject anything else.
const (
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
	FieldName      = "name"
	FieldSize      = "size"
)

// DefaultSort is applied when no sort spec is given.
const DefaultSort = FieldCreatedAt + "-desc"

// Predicate is one filter, ordering or limit clause for a list operation.
type Predicate struct {
	Op     Op
	Field  string
	Values []string
	Limit  int
}

// Options carries the caller-controlled filters for Build.
type Options struct {
	Types      []string
	SearchText string
	Sort       string
	Limit      int
}

// Build translates a (user, filters) tuple into the ordered predicate list
// implementing the access-scope and filtering rules. The access predicate
// is always first.
func Build(userID, userEmail string, opts Options) []Predicate {
	preds := []Predicate{{
		Op:     OpAccess,
		Values: []string{userID, userEmail},
	}}

	if len(opts.Types) > 0 {
		preds = append(preds, Predicate{Op: OpTypeIn, Field: "type", Values: opts.Types})
	}
	if opts.SearchText != "" {
		preds = append(preds, Predicate{Op: OpNameContains, Field: FieldName, Values: []string{opts.SearchText}})
	}
	if opts.Limit > 0 {
		preds = append(preds, Predicate{Op: OpLimit, Limit: opts.Limit})
	}

	preds = append(preds, sortPredicate(opts.Sort))
	return preds
}

// BuildOwnedBy returns the predicate list for "all records owned by one
// user", the list path usage aggregation folds over.
func BuildOwnedBy(ownerID string) []Predicate {
	return []Predicate{{Op: OpOwnerEq, Field: "owner", Values: []string{ownerID}}}
}

// sortPredicate parses a "<field>-<asc|desc>" spec, splitting on the last
// dash. Unknown or missing direction defaults to descending.
func sortPredicate(spec string) Predicate {
	if spec == "" {
		spec = DefaultSort
	}

	field := spec
	dir := ""
	if i := strings.LastIndex(spec, "-"); i >= 0 {
		field = spec[:i]
		dir = spec[i+1:]
	}
	if field == "" {
		field = FieldCreatedAt
	}

	if dir == "asc" {
		return Predicate{Op: OpOrderAsc, Field: field}
	}
	return Predicate{Op: OpOrderDesc, Field: field}
}

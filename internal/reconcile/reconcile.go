// Package reconcile applies the outcome of a confirmed write to a list of
// records. The input list is never modified; every call returns a new slice.
// When the write failed, the list is returned unchanged with the error.
package reconcile

import (
	"slices"

	"github.com/MrJamesThe3rd/controlfin/internal/finance"
)

// Placement says where a created record enters its list.
type Placement int

const (
	// Prepend is used for transactional records, listed newest first.
	Prepend Placement = iota
	// Append is used for reference records.
	Append
)

// Created adds rec to list.
func Created[T finance.Record](list []T, rec T, err error, at Placement) ([]T, error) {
	if err != nil {
		return slices.Clone(list), err
	}

	out := make([]T, 0, len(list)+1)

	if at == Prepend {
		out = append(out, rec)
		return append(out, list...), nil
	}

	out = append(out, list...)

	return append(out, rec), nil
}

// Updated replaces the record with rec's id. A missing id leaves the list
// as it was.
func Updated[T finance.Record](list []T, rec T, err error) ([]T, error) {
	out := slices.Clone(list)
	if err != nil {
		return out, err
	}

	if i := index(out, rec.RecordID()); i >= 0 {
		out[i] = rec
	}

	return out, nil
}

// Deleted removes the record with id. A missing id leaves the list as it was.
func Deleted[T finance.Record](list []T, id string, err error) ([]T, error) {
	out := slices.Clone(list)
	if err != nil {
		return out, err
	}

	if i := index(out, id); i >= 0 {
		out = slices.Delete(out, i, i+1)
	}

	return out, nil
}

func index[T finance.Record](list []T, id string) int {
	return slices.IndexFunc(list, func(r T) bool { return r.RecordID() == id })
}

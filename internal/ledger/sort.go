package ledger

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SortKey selects the column the ledger is ordered by.
type SortKey string

// SortKey constants.
const (
	SortByID             SortKey = "id"
	SortByName           SortKey = "name"
	SortByLastAttendance SortKey = "lastAttendance"
)

// Direction is the sort direction. DirectionNone means fetch order.
type Direction string

// Direction constants.
const (
	DirectionAsc  Direction = "asc"
	DirectionDesc Direction = "desc"
	DirectionNone Direction = ""
)

// ParseSortKey accepts the column names used by the records screen. An empty
// string yields an empty key, which sorts nothing.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.TrimSpace(s) {
	case "":
		return "", nil
	case "id":
		return SortByID, nil
	case "name":
		return SortByName, nil
	case "lastAttendance", "last_attendance", "lastattendance":
		return SortByLastAttendance, nil
	default:
		return "", fmt.Errorf("unknown sort key %q (use id, name or lastAttendance)", s)
	}
}

// ParseDirection accepts asc, desc, none or an empty string.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc":
		return DirectionAsc, nil
	case "desc":
		return DirectionDesc, nil
	case "", "none":
		return DirectionNone, nil
	default:
		return "", fmt.Errorf("unknown sort direction %q (use asc, desc or none)", s)
	}
}

// Compare orders a and b: -1 when a sorts first. It never returns 0, so equal
// keys keep whatever order the sort algorithm leaves them in.
func Compare[T cmp.Ordered](a, b T, asc bool) int {
	sign := 1
	if !asc {
		sign = -1
	}
	if a < b {
		return -sign
	}
	return sign
}

// compareLastAttendance pins records without attendance to the front in both
// directions.
func compareLastAttendance(a, b Record, asc bool) int {
	if a.LastAttendance == nil {
		return -1
	}
	if b.LastAttendance == nil {
		return 1
	}
	return Compare(a.LastAttendance.UnixNano(), b.LastAttendance.UnixNano(), asc)
}

// sortRecords returns a sorted copy of records. An unknown key or DirectionNone
// returns the records in their original order.
func sortRecords(records []Record, key SortKey, direction Direction) []Record {
	out := slices.Clone(records)
	if key == "" || direction == DirectionNone {
		return out
	}

	asc := direction == DirectionAsc
	var fn func(a, b Record) int
	switch key {
	case SortByID:
		fn = func(a, b Record) int { return Compare(a.ID, b.ID, asc) }
	case SortByName:
		fn = func(a, b Record) int { return Compare(a.Name, b.Name, asc) }
	case SortByLastAttendance:
		fn = func(a, b Record) int { return compareLastAttendance(a, b, asc) }
	default:
		return out
	}

	slices.SortStableFunc(out, fn)
	return out
}

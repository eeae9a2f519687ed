package view

import (
	"sort"
	"strings"
)

// SortChronological orders entries by When, undated entries last, then by
// title and tracking id. Classify itself returns entries unordered.
func SortChronological(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, aok := When(entries[i])
		b, bok := When(entries[j])
		if aok != bok {
			return aok
		}
		if aok && a != b {
			return a < b
		}
		ta, tb := title(entries[i]), title(entries[j])
		if ta != tb {
			return ta < tb
		}
		return TrackingID(entries[i]) < TrackingID(entries[j])
	})
}

func title(e Entry) string {
	if t := Definition(e); t != nil {
		return strings.ToLower(t.Title)
	}
	return ""
}

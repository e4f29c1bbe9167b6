// Package services holds pure domain logic shared by the orchestrators.
package services

import "strings"

// VersionFilter selects versions by their qualified id
type VersionFilter struct {
	whiteList []string
	blackList []string
}

// NewVersionFilter creates a filter. An empty white list selects everything.
func NewVersionFilter(whiteList, blackList []string) *VersionFilter {
	if len(whiteList) == 0 {
		whiteList = []string{""}
	}
	return &VersionFilter{
		whiteList: whiteList,
		blackList: blackList,
	}
}

// Includes reports whether id contains at least one white-list entry and
// no black-list entry
func (f *VersionFilter) Includes(id string) bool {
	return containsAny(id, f.whiteList) && !containsAny(id, f.blackList)
}

func containsAny(id string, substrings []string) bool {
	for _, s := range substrings {
		if strings.Contains(id, s) {
			return true
		}
	}
	return false
}

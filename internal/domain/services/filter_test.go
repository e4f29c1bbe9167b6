package services

import "testing"

func TestVersionFilter_Includes(t *testing.T) {
	tests := []struct {
		name      string
		whiteList []string
		blackList []string
		id        string
		want      bool
	}{
		{name: "default white list selects everything", id: "aclang.587", want: true},
		{name: "empty string in white list selects everything", whiteList: []string{""}, id: "jodatime.1", want: true},
		{name: "white list substring", whiteList: []string{"aclang"}, id: "aclang.587", want: true},
		{name: "no white list match", whiteList: []string{"jodatime"}, id: "aclang.587", want: false},
		{name: "any white list entry suffices", whiteList: []string{"x", "587"}, id: "aclang.587", want: true},
		{name: "black list wins", whiteList: []string{"aclang"}, blackList: []string{".587"}, id: "aclang.587", want: false},
		{name: "black list substring elsewhere", blackList: []string{"joda"}, id: "aclang.587", want: true},
		{name: "black list empty string excludes everything", blackList: []string{""}, id: "aclang.587", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewVersionFilter(tt.whiteList, tt.blackList)
			if got := f.Includes(tt.id); got != tt.want {
				t.Errorf("Includes(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

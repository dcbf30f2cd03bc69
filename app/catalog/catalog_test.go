package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveLabel(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		code string
		want string
	}{
		{name: "category", kind: KindCategory, code: "11", want: "국수"},
		{name: "region", kind: KindRegion, code: "121", want: "조천읍"},
		{name: "unknown code", kind: KindCategory, code: "999", want: Unresolved},
		{name: "wildcard is not a code", kind: KindRegion, code: Wildcard, want: Unresolved},
		{name: "unknown kind", kind: Kind("price"), code: "01", want: Unresolved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveLabel(tt.kind, tt.code))
		})
	}
}

func TestEntries(t *testing.T) {
	cats := Entries(KindCategory)
	regs := Entries(KindRegion)

	assert.Len(t, cats, 19)
	assert.Len(t, regs, 25)
	assert.Equal(t, Entry{Code: "01", Label: "한식"}, cats[0])
	assert.Equal(t, Entry{Code: "125", Label: "우도면"}, regs[len(regs)-1])
	assert.Empty(t, Entries(Kind("nope")))
}

func TestIsWildcard(t *testing.T) {
	assert.True(t, IsWildcard(""))
	assert.True(t, IsWildcard(" any "))
	assert.False(t, IsWildcard("11"))
}

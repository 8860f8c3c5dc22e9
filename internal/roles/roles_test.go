package roles

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMerge_UserRoleReplacesBuiltinWithSameID(t *testing.T) {
	builtin := []Role{
		{ID: "market", Name: "Market Analyst", Position: 1, Source: SourceBuiltIn},
		{ID: "news", Name: "News Analyst", Position: 3, Source: SourceBuiltIn},
	}
	user := []Role{
		{ID: "market", Name: "Custom Market", Position: 1, Source: SourceUser},
	}

	merged := Merge(builtin, user)

	require.Len(t, merged, 2)
	require.Equal(t, "Custom Market", merged[0].Name)
	require.Equal(t, SourceUser, merged[0].Source)
}

func TestMerge_NewUserRoleIsAppended(t *testing.T) {
	builtin := []Role{
		{ID: "market", Position: 1},
		{ID: "news", Position: 3},
	}
	user := []Role{
		{ID: "macro", Position: 2, Source: SourceUser},
	}

	merged := Merge(builtin, user)

	require.Len(t, merged, 3)
	ids := []string{merged[0].ID, merged[1].ID, merged[2].ID}
	require.Equal(t, []string{"market", "macro", "news"}, ids, "merge must sort by position")
}

func TestMerge_EmptyUserSetKeepsBuiltins(t *testing.T) {
	builtin := []Role{{ID: "market", Position: 1}}
	require.Equal(t, builtin, Merge(builtin, nil))
}

func TestSplit_SeparatesLeadFromAnalysts(t *testing.T) {
	all := []Role{
		{ID: "market", Position: 1},
		{ID: "news", Position: 2},
		{ID: "lead", Position: 100, Lead: true},
	}

	analysts, lead, err := Split(all)

	require.NoError(t, err)
	require.Equal(t, "lead", lead.ID)
	require.Len(t, analysts, 2)
	for _, a := range analysts {
		require.False(t, a.Lead)
	}
}

func TestSplit_RequiresExactlyOneLead(t *testing.T) {
	_, _, err := Split([]Role{{ID: "market"}, {ID: "news"}})
	require.ErrorContains(t, err, "no lead role")

	_, _, err = Split([]Role{
		{ID: "a", Lead: true},
		{ID: "b", Lead: true},
		{ID: "market"},
	})
	require.ErrorContains(t, err, "multiple lead roles")
}

func TestSplit_RequiresAtLeastOneAnalyst(t *testing.T) {
	_, _, err := Split([]Role{{ID: "lead", Lead: true}})
	require.ErrorContains(t, err, "no analyst roles")
}

func TestRole_SpecMapping(t *testing.T) {
	r := Role{ID: "market", Name: "Market Analyst", Instructions: "do analysis", Position: 7}
	spec := r.Spec()
	require.Equal(t, "market", spec.ID)
	require.Equal(t, "Market Analyst", spec.Name)
	require.Equal(t, "do analysis", spec.Instructions)
	require.Equal(t, 7, spec.Position)
}

func TestSource_String(t *testing.T) {
	require.Equal(t, "built-in", SourceBuiltIn.String())
	require.Equal(t, "user", SourceUser.String())
}

package roles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadBuiltin_ProvidesCompleteRegistry(t *testing.T) {
	builtin, err := LoadBuiltin()
	require.NoError(t, err)

	byID := make(map[string]Role, len(builtin))
	for _, r := range builtin {
		byID[r.ID] = r
	}
	for _, id := range []string{"market", "fundamentals", "news", "sentiment", "lead"} {
		r, ok := byID[id]
		require.True(t, ok, "missing built-in role %s", id)
		require.NotEmpty(t, r.Name)
		require.NotEmpty(t, r.Instructions)
		require.Equal(t, SourceBuiltIn, r.Source)
	}

	analysts, lead, err := Split(Merge(builtin, nil))
	require.NoError(t, err)
	require.Equal(t, "lead", lead.ID)
	require.Len(t, analysts, 4)
}

func TestLoadUserDir_MissingDirIsNotAnError(t *testing.T) {
	roles, err := LoadUserDir(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	require.Empty(t, roles)

	roles, err = LoadUserDir("")
	require.NoError(t, err)
	require.Empty(t, roles)
}

func TestLoadUserDir_LoadsTemplates(t *testing.T) {
	dir := t.TempDir()
	content := `---
name: Macro Analyst
description: Rates and macro backdrop
position: 5
---
You analyze the macro environment.
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "macro.md"), []byte(content), 0o600))
	// Non-markdown files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o600))

	roles, err := LoadUserDir(dir)
	require.NoError(t, err)
	require.Len(t, roles, 1)

	r := roles[0]
	require.Equal(t, "macro", r.ID)
	require.Equal(t, "Macro Analyst", r.Name)
	require.Equal(t, 5, r.Position)
	require.False(t, r.Lead)
	require.Equal(t, "You analyze the macro environment.", r.Instructions)
	require.Equal(t, SourceUser, r.Source)
	require.Equal(t, filepath.Join(dir, "macro.md"), r.FilePath)
}

func TestLoadUserDir_SkipsInvalidTemplates(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.md"), []byte("no frontmatter here"), 0o600))
	valid := `---
name: Valid Role
---
Body.
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "valid.md"), []byte(valid), 0o600))

	roles, err := LoadUserDir(dir)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	require.Equal(t, "valid", roles[0].ID)
}

func TestParseFrontmatter(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "valid",
			content: `---
name: Market Analyst
description: desc
position: 1
lead: true
---
Instructions body.
`,
		},
		{
			name:    "missing opening delimiter",
			content: "name: x\n---\nbody\n",
			wantErr: "does not start with frontmatter delimiter",
		},
		{
			name:    "unclosed frontmatter",
			content: "---\nname: x\n",
			wantErr: "no closing frontmatter delimiter",
		},
		{
			name: "missing name",
			content: `---
description: nameless
---
body
`,
			wantErr: "missing required field: name",
		},
		{
			name: "invalid yaml",
			content: `---
name: [unclosed
---
body
`,
			wantErr: "parsing YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, body, err := parseFrontmatter(tt.content)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "Market Analyst", fm.Name)
			require.Equal(t, "desc", fm.Description)
			require.Equal(t, 1, fm.Position)
			require.True(t, fm.Lead)
			require.Equal(t, "Instructions body.\n", body)
		})
	}
}

func TestParseRole_RequiresInstructionBody(t *testing.T) {
	content := `---
name: Empty Role
---
`
	_, err := parseRole(content, "empty.md", SourceBuiltIn)
	require.ErrorContains(t, err, "no instruction body")
}

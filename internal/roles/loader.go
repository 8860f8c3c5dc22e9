package roles

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/quorumlabs/council/internal/log"
)

// frontmatter represents the YAML frontmatter in a role template.
type frontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Position    int    `yaml:"position"`
	Lead        bool   `yaml:"lead"`
}

// frontmatterDelimiter is the standard YAML frontmatter delimiter.
const frontmatterDelimiter = "---"

// LoadBuiltin loads all built-in role templates from the embedded filesystem.
func LoadBuiltin() ([]Role, error) {
	return loadFromFS(builtinTemplates, "templates", SourceBuiltIn)
}

// LoadUserDir loads user role templates from dir. A missing directory is not
// an error; it just yields no roles.
func LoadUserDir(dir string) ([]Role, error) {
	if dir == "" {
		return nil, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	roles, err := loadFromFS(os.DirFS(dir), ".", SourceUser)
	if err != nil {
		return nil, err
	}
	for i := range roles {
		roles[i].FilePath = filepath.Join(dir, roles[i].ID+".md")
	}
	return roles, nil
}

// loadFromFS loads role templates from a filesystem at the given directory.
func loadFromFS(fsys fs.FS, dir string, source Source) ([]Role, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading role directory: %w", err)
	}

	var roles []Role
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		// path.Join, not filepath.Join: embedded filesystems always use
		// forward slashes.
		fsPath := path.Join(dir, entry.Name())
		content, err := fs.ReadFile(fsys, fsPath)
		if err != nil {
			return nil, fmt.Errorf("reading role file %s: %w", fsPath, err)
		}

		role, err := parseRole(string(content), entry.Name(), source)
		if err != nil {
			log.Warn(log.CatRoles, "Skipping role with invalid frontmatter", "file", fsPath, "error", err)
			continue
		}

		roles = append(roles, role)
	}

	return roles, nil
}

// parseRole parses a role from its content and filename.
func parseRole(content, filename string, source Source) (Role, error) {
	fm, body, err := parseFrontmatter(content)
	if err != nil {
		return Role{}, fmt.Errorf("parsing frontmatter: %w", err)
	}

	// Derive ID from filename (e.g. "market.md" -> "market").
	id := strings.TrimSuffix(filename, ".md")

	instructions := strings.TrimSpace(body)
	if instructions == "" {
		return Role{}, fmt.Errorf("role %s has no instruction body", id)
	}

	return Role{
		ID:           id,
		Name:         fm.Name,
		Description:  fm.Description,
		Position:     fm.Position,
		Lead:         fm.Lead,
		Instructions: instructions,
		Source:       source,
	}, nil
}

// parseFrontmatter extracts YAML frontmatter from markdown content and
// returns it along with the remaining body.
func parseFrontmatter(content string) (frontmatter, string, error) {
	var fm frontmatter

	if !strings.HasPrefix(content, frontmatterDelimiter) {
		return fm, "", fmt.Errorf("content does not start with frontmatter delimiter")
	}

	rest := content[len(frontmatterDelimiter):]
	yamlContent, body, found := strings.Cut(rest, "\n"+frontmatterDelimiter)
	if !found {
		return fm, "", fmt.Errorf("no closing frontmatter delimiter found")
	}

	yamlContent = strings.TrimPrefix(yamlContent, "\n")

	decoder := yaml.NewDecoder(bytes.NewReader([]byte(yamlContent)))
	if err := decoder.Decode(&fm); err != nil {
		return fm, "", fmt.Errorf("parsing YAML: %w", err)
	}

	if fm.Name == "" {
		return fm, "", fmt.Errorf("frontmatter missing required field: name")
	}

	// Body starts after the closing delimiter line.
	body = strings.TrimPrefix(body, "\n")
	return fm, body, nil
}

// UserRoleDir returns the default user role directory path,
// ~/.config/council/roles.
func UserRoleDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "council", "roles")
}

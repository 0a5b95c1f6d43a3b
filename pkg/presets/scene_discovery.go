package presets

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MeshPrefix marks preset ids that render a mesh file
const MeshPrefix = "mesh:"

// BuiltinGroup is the group of the presets defined in code
const BuiltinGroup = "Built-in Scenes"

// Info describes a preset
type Info struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Group       string `json:"group"`
	Type        string `json:"type"`     // "builtin" or "mesh"
	FilePath    string `json:"filePath"` // mesh presets only
	Variant     string `json:"variant"`
}

// Group is a named set of presets
type Group struct {
	Name    string `json:"name"`
	Presets []Info `json:"presets"`
}

var meshExtensions = []string{".obj", ".ply", ".stl"}

// DiscoverMeshes lists the mesh files in dir as presets. A missing
// directory yields no presets.
func DiscoverMeshes(dir string) ([]Info, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	var infos []Info
	for _, ext := range meshExtensions {
		files, err := filepath.Glob(filepath.Join(dir, "*"+ext))
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
		}
		for _, file := range files {
			info, err := ParseMeshMetadata(file)
			if err != nil {
				return nil, err
			}
			infos = append(infos, info)
		}
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].DisplayName < infos[j].DisplayName
	})
	return infos, nil
}

// ParseMeshMetadata reads "Scene:", "Variant:", "Description:" and
// "Group:" entries from the comment header of a mesh file. OBJ comments
// start with "#", PLY header comments with "comment". Unreadable files keep
// the values derived from the file name.
func ParseMeshMetadata(path string) (Info, error) {
	base := filepath.Base(path)
	name := titleCase(strings.TrimSuffix(base, filepath.Ext(base)))
	info := Info{
		ID:          MeshPrefix + path,
		Name:        name,
		DisplayName: name,
		Group:       "Meshes",
		Type:        "mesh",
		FilePath:    path,
	}

	file, err := os.Open(path)
	if err != nil {
		return info, nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
scan:
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		var content string
		switch {
		case strings.HasPrefix(line, "#"):
			content = strings.TrimSpace(strings.TrimPrefix(line, "#"))
		case strings.HasPrefix(line, "comment "):
			content = strings.TrimSpace(strings.TrimPrefix(line, "comment "))
		case line == "ply" || strings.HasPrefix(line, "format "):
			continue
		default:
			// first line of geometry
			break scan
		}

		key, value, ok := strings.Cut(content, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "Scene":
			info.Name = value
		case "Variant":
			info.Variant = value
		case "Description":
			info.Description = value
		case "Group":
			info.Group = value
		}
	}
	if info.Variant != "" {
		info.DisplayName = fmt.Sprintf("%s - %s", info.Name, info.Variant)
	} else {
		info.DisplayName = info.Name
	}
	return info, scanner.Err()
}

// ListAll returns the built in presets followed by the meshes found in
// dir, grouped by category. The built in group comes first, the others are
// sorted by name.
func ListAll(dir string) ([]Group, error) {
	meshes, err := DiscoverMeshes(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list meshes: %w", err)
	}

	byGroup := make(map[string][]Info)
	for _, info := range append(List(), meshes...) {
		byGroup[info.Group] = append(byGroup[info.Group], info)
	}

	var names []string
	for name := range byGroup {
		if name != BuiltinGroup {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var groups []Group
	if builtin, ok := byGroup[BuiltinGroup]; ok {
		groups = append(groups, Group{Name: BuiltinGroup, Presets: builtin})
	}
	for _, name := range names {
		groups = append(groups, Group{Name: name, Presets: byGroup[name]})
	}
	return groups, nil
}

// titleCase turns a file name like "cornell-empty" into "Cornell Empty"
func titleCase(s string) string {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}

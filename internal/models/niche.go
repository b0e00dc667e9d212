package models

import "strings"

// NicheProject is one tile of the niche projects catalog.
type NicheProject struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon" yaml:"icon"`
	Tag         string `json:"tag" yaml:"tag"`
	File        string `json:"file" yaml:"file"`
	Order       int    `json:"order" yaml:"order"`
}

// External reports whether the project links off-site.
func (p NicheProject) External() bool {
	return strings.HasPrefix(p.File, "http")
}

// Href is the link target: external URLs as-is, local files under niche/.
func (p NicheProject) Href() string {
	if p.External() {
		return p.File
	}
	return "niche/" + p.File
}

// NicheCatalog is the on-disk catalog document.
type NicheCatalog struct {
	Projects []NicheProject `json:"projects" yaml:"projects"`
}

// NichePage is what a listing returns: the visible tiles and the total count.
type NichePage struct {
	Projects []NicheProject `json:"projects"`
	Total    int            `json:"total"`
	HasMore  bool           `json:"has_more"`
}

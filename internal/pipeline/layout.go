package pipeline

import (
	"path/filepath"

	"github.com/vovakirdan/b18print/internal/manifest"
)

// Layout locates every output of one game version under the output dir:
//
//	<out>/<bname>/board18-<id>/<id>/<Asset>.png
//	<out>/<bname>/board18-<id>.json
//	<out>/<bname>/board18-<id>.zip
type Layout struct {
	OutputDir string
	Name      string
	Version   string
}

// NewLayout returns the layout of name-version under outputDir.
func NewLayout(outputDir, name, version string) Layout {
	return Layout{OutputDir: outputDir, Name: name, Version: version}
}

// ID is "<bname>-<version>".
func (l Layout) ID() string {
	return manifest.ID(l.Name, l.Version)
}

// RootName is the archive root folder name.
func (l Layout) RootName() string {
	return "board18-" + l.ID()
}

// GameDir holds every version of the game.
func (l Layout) GameDir() string {
	return filepath.Join(l.OutputDir, l.Name)
}

// RootDir is the folder that gets archived.
func (l Layout) RootDir() string {
	return filepath.Join(l.GameDir(), l.RootName())
}

// AssetDir holds the captured images.
func (l Layout) AssetDir() string {
	return filepath.Join(l.RootDir(), l.ID())
}

// AssetPath is the PNG path for an asset base name such as "Map".
func (l Layout) AssetPath(file string) string {
	return filepath.Join(l.AssetDir(), file+".png")
}

// ManifestPath is where the manifest is written next to the archive.
func (l Layout) ManifestPath() string {
	return filepath.Join(l.GameDir(), l.RootName()+".json")
}

// ArchivePath is the final zip path.
func (l Layout) ArchivePath() string {
	return filepath.Join(l.GameDir(), l.RootName()+".zip")
}

// ManifestEntry is the manifest's file name inside the archive root.
func (l Layout) ManifestEntry() string {
	return l.ID() + ".json"
}

package archive

import (
	"cmp"
	"path/filepath"
	"slices"
	"strings"

	"github.com/segmentio/encoding/json"

	"github.com/arloliu/nierarc/internal/hash"
)

// Manifest file names, as the game modding tools expect them.
const (
	DatManifestName = "dat_info.json"
	PakManifestName = "pakInfo.json"
	// PakExtractDir is the subdirectory nested PAK files are extracted into.
	PakExtractDir = "pakExtracted"

	manifestVersion = 1
)

// Manifest describes an extracted container so it can be repacked later.
type Manifest struct {
	Version  int            `json:"version"`
	Basename string         `json:"basename,omitempty"`
	Ext      string         `json:"ext,omitempty"`
	Files    []ManifestFile `json:"files"`
}

// ManifestFile is one entry of a Manifest.
type ManifestFile struct {
	Name string `json:"name"`
	// Type is the PAK entry type; DAT entries leave it zero.
	Type  uint32 `json:"type,omitempty"`
	Size  int    `json:"size"`
	XXH64 string `json:"xxh64"`
}

// NewManifest creates an empty manifest for the container file named source. An empty
// source leaves basename and ext unset.
func NewManifest(source string) *Manifest {
	m := &Manifest{Version: manifestVersion, Files: []ManifestFile{}}
	if source != "" {
		base := filepath.Base(source)
		m.Ext = strings.TrimPrefix(filepath.Ext(base), ".")
		m.Basename = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return m
}

// Add records an entry and the digest of its stored payload.
func (m *Manifest) Add(name string, typ uint32, data []byte) {
	m.Files = append(m.Files, ManifestFile{
		Name:  name,
		Type:  typ,
		Size:  len(data),
		XXH64: hash.Hex(hash.Digest(data)),
	})
}

// SortByName orders files by stem, then extension, ignoring case.
func (m *Manifest) SortByName() {
	slices.SortStableFunc(m.Files, func(a, b ManifestFile) int {
		as, ae := splitExt(a.Name)
		bs, be := splitExt(b.Name)
		if c := cmp.Compare(strings.ToLower(as), strings.ToLower(bs)); c != 0 {
			return c
		}

		return cmp.Compare(strings.ToLower(ae), strings.ToLower(be))
	})
}

func splitExt(name string) (string, string) {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext), ext
}

// Marshal renders the manifest as indented JSON.
func (m *Manifest) Marshal() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// WriteManifest writes m as fileName in the destination directory. Manifests are not
// part of the extraction Result.
func (x *Extractor) WriteManifest(fileName string, m *Manifest) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	if _, err := x.sink.WriteFile(fileName, append(data, '\n')); err != nil {
		return err
	}
	x.cfg.logger.Debug("wrote manifest", "file", fileName, "entries", len(m.Files))

	return nil
}

// ReadManifest parses a manifest written by WriteManifest.
func ReadManifest(data []byte) (*Manifest, error) {
	m := &Manifest{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, err
	}

	return m, nil
}

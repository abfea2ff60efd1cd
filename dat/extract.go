package dat

import (
	"path/filepath"
	"slices"

	"github.com/arloliu/nierarc/archive"
	"github.com/arloliu/nierarc/format"
	"github.com/arloliu/nierarc/pak"
)

// ExtractAll writes the top-level entries into targetDir, in entry order.
//
// YAX entries are written as XML. PAK entries are written as they are and, when
// shouldExtractPakFiles is set, also extracted with YAX conversion into
// <targetDir>/pakExtracted/<entry name>/; their paths follow the PAK's own path in the
// result. Failed entries, nested ones included, are logged and recorded in the Result.
//
// Returns:
//   - archive.Result: Produced paths and failed entries
//   - error: Only for failures affecting the whole archive
func (a *Archive) ExtractAll(targetDir string, shouldExtractPakFiles bool, opts ...archive.Option) (archive.Result, error) {
	x, err := archive.NewExtractor(targetDir, opts...)
	if err != nil {
		return archive.Result{}, err
	}
	cfg := x.Config()

	var res archive.Result
	if len(a.entries) == 0 {
		cfg.Logger().Warn("DAT archive has no entries", "dir", x.Dir())
		return res, nil
	}

	var manifest *archive.Manifest
	if cfg.Manifest() {
		manifest = archive.NewManifest(cfg.Source())
	}

	for i, e := range a.entries {
		data, err := a.Data(i)
		if err != nil {
			x.Fail(&res, e, err)
			continue
		}
		if manifest != nil {
			manifest.Add(e.Name, 0, data)
		}

		switch e.Kind {
		case format.KindYax:
			p, err := x.WriteYaxAsXML(e, data)
			if err != nil {
				x.Fail(&res, e, err)
				continue
			}
			res.Add(p)
		case format.KindPak:
			p, err := x.WriteRaw(e, data)
			if err != nil {
				x.Fail(&res, e, err)
				continue
			}
			res.Add(p)
			if shouldExtractPakFiles {
				a.extractPak(x, &res, e, data, opts)
			}
		default:
			p, err := x.WriteRaw(e, data)
			if err != nil {
				x.Fail(&res, e, err)
				continue
			}
			res.Add(p)
		}
	}

	if manifest != nil {
		manifest.SortByName()
		if err := x.WriteManifest(archive.DatManifestName, manifest); err != nil {
			return res, err
		}
	}

	cfg.Logger().Info("extracted dat", "dir", x.Dir(), "entries", len(a.entries), "written", len(res.Paths), "failed", len(res.Failures))

	return res, nil
}

// extractPak extracts a nested PAK one level deeper and merges its outcome into res.
func (a *Archive) extractPak(x *archive.Extractor, res *archive.Result, e archive.Entry, data []byte, opts []archive.Option) {
	nested, err := pak.Open(data)
	if err != nil {
		x.Fail(res, e, err)
		return
	}

	rel, err := archive.LocalName(e.Name)
	if err != nil {
		x.Fail(res, e, err)
		return
	}

	nestedOpts := append(slices.Clone(opts), archive.WithDepth(x.Config().Depth()+1), archive.WithSource(e.Name))
	sub, err := nested.ExtractAll(filepath.Join(x.Dir(), archive.PakExtractDir, rel), true, nestedOpts...)
	if err != nil {
		x.Fail(res, e, err)
		return
	}
	res.Merge(e.Name, sub)
}

package pak

import (
	"github.com/arloliu/nierarc/archive"
	"github.com/arloliu/nierarc/format"
)

// ExtractAll writes every entry into targetDir under its stored name, in entry order.
//
// With yaxToXml set, entries carrying the YAX signature are written as XML with their
// extension changed to ".xml". An entry that fails (bad name, unreadable payload, broken
// tree) is logged and recorded in the Result; the remaining entries are still written.
//
// Returns:
//   - archive.Result: Produced paths in entry order and the failed entries
//   - error: Only for failures affecting the whole container, such as an unusable
//     targetDir or ErrNestingTooDeep
func (a *Archive) ExtractAll(targetDir string, yaxToXml bool, opts ...archive.Option) (archive.Result, error) {
	x, err := archive.NewExtractor(targetDir, opts...)
	if err != nil {
		return archive.Result{}, err
	}

	var res archive.Result
	var manifest *archive.Manifest
	if x.Config().Manifest() {
		manifest = archive.NewManifest("")
	}

	for i, e := range a.entries {
		data, err := a.Data(i)
		if err != nil {
			x.Fail(&res, e, err)
			continue
		}
		if manifest != nil {
			manifest.Add(e.Name, a.records[i].Type, data)
		}

		var p string
		if yaxToXml && e.Kind == format.KindYax {
			p, err = x.WriteYaxAsXML(e, data)
		} else {
			p, err = x.WriteRaw(e, data)
		}
		if err != nil {
			x.Fail(&res, e, err)
			continue
		}
		res.Add(p)
	}

	if manifest != nil {
		if err := x.WriteManifest(archive.PakManifestName, manifest); err != nil {
			return res, err
		}
	}

	x.Config().Logger().Info("extracted pak", "dir", x.Dir(), "entries", len(a.entries), "written", len(res.Paths), "failed", len(res.Failures))

	return res, nil
}

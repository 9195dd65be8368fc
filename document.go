package sceneport

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

var ErrDocumentInvalid = errors.New("document contents could not be parsed, probably invalid json")
var ErrDocumentIncomplete = errors.New("document is missing a required section")

// Timekeeper describes the time range a document animates over.
type Timekeeper struct {
	InitialTime float64
	FinishTime  float64
	TimeSteps   int
}

// Document is a loaded scene document: the region tree with its meshes,
// the saved views and the global display settings.
type Document struct {
	path         string
	root         *Region
	views        []*View
	activeView   string
	tessellation TessellationLevel
	timekeeper   *Timekeeper
}

func (d *Document) Path() string {
	return d.path
}

func (d *Document) RootRegion() *Region {
	return d.root
}

func (d *Document) Views() []*View {
	return d.views
}

func (d *Document) FindView(name string) *View {
	for _, v := range d.views {
		if v.name == name {
			return v
		}
	}

	return nil
}

// ActiveView names the view the document was saved with; it may be
// empty.
func (d *Document) ActiveView() string {
	return d.activeView
}

func (d *Document) Tessellation() TessellationLevel {
	return d.tessellation
}

// SetTessellation switches the sampling density used by subsequent
// geometry exports, e.g. while writing level of detail sets.
func (d *Document) SetTessellation(tl TessellationLevel) {
	d.tessellation = tl
}

// Timekeeper returns nil for static documents.
func (d *Document) Timekeeper() *Timekeeper {
	return d.timekeeper
}

// SourcePaths lists the document file and every model source file it
// references.
func (d *Document) SourcePaths() []string {
	return append([]string{d.path}, d.root.SourcePaths()...)
}

func parseDocument(l *Loader, path string, raw []byte) (*Document, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errors.Wrapf(ErrDocumentInvalid, "file %s", path)
	}

	rootRes := gjson.GetBytes(raw, "RootRegion")
	if !rootRes.Exists() {
		return nil, errors.Wrapf(ErrDocumentIncomplete, "file %s has no RootRegion", path)
	}

	d := &Document{
		path:         path,
		tessellation: TessellationLevel(gjson.GetBytes(raw, "Tessellation").String()),
		activeView:   gjson.GetBytes(raw, "ActiveView").String(),
	}

	if d.tessellation == "" {
		d.tessellation = TessellationLow
	}

	dir := filepath.Dir(path)
	root, err := parseRegion(l, rootRes, "", nil, dir)
	if err != nil {
		return nil, err
	}
	d.root = root

	for _, viewRes := range gjson.GetBytes(raw, "Views").Array() {
		view := &View{name: viewRes.Get("Name").String()}
		for _, sceneRes := range viewRes.Get("Scenes").Array() {
			svRes := sceneRes.Get("Sceneviewer")
			if !svRes.Exists() {
				continue
			}

			view.viewers = append(view.viewers, parseSceneviewer(svRes))
		}

		d.views = append(d.views, view)
	}

	if tkRes := gjson.GetBytes(raw, "Timekeeper"); tkRes.Exists() {
		d.timekeeper = &Timekeeper{
			InitialTime: tkRes.Get("InitialTime").Float(),
			FinishTime:  tkRes.Get("FinishTime").Float(),
			TimeSteps:   int(tkRes.Get("TimeSteps").Int()),
		}

		if d.timekeeper.TimeSteps <= 0 {
			d.timekeeper.TimeSteps = defaultTimeSteps
		}
	}

	return d, nil
}

func parseRegion(l *Loader, res gjson.Result, name string, parent *Region, dir string) (*Region, error) {
	r := newRegion(name, parent)

	for _, srcRes := range res.Get("Model.Sources").Array() {
		if srcRes.Get("Type").String() != "FILE" {
			continue
		}

		fileName := srcRes.Get("FileName").String()
		if fileName == "" {
			return nil, errors.Wrapf(ErrDocumentIncomplete, "region %s has a FILE source without a FileName", r.Path())
		}

		if !filepath.IsAbs(fileName) {
			fileName = filepath.Join(dir, fileName)
		}

		src, err := l.loadModelSource(fileName)
		if err != nil {
			return nil, err
		}

		if err := src.applyTo(r); err != nil {
			return nil, err
		}

		r.sourcePaths = append(r.sourcePaths, fileName)
	}

	fillMarkerDefaults(r.markers)

	for _, childRes := range res.Get("ChildRegions").Array() {
		childName := childRes.Get("Name").String()
		if childName == "" {
			return nil, errors.Wrapf(ErrDocumentIncomplete, "child of region %s has no Name", r.Path())
		}

		if _, err := parseRegion(l, childRes, childName, r, dir); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func parseSceneviewer(res gjson.Result) *Sceneviewer {
	return &Sceneviewer{
		FarClippingPlane:  res.Get("FarClippingPlane").Float(),
		NearClippingPlane: res.Get("NearClippingPlane").Float(),
		EyePosition:       floatSlice(res.Get("EyePosition")),
		LookatPosition:    floatSlice(res.Get("LookatPosition")),
		UpVector:          floatSlice(res.Get("UpVector")),
		ViewAngle:         res.Get("ViewAngle").Float(),
	}
}

func floatSlice(res gjson.Result) []float64 {
	items := res.Array()
	out := make([]float64, 0, len(items))
	for _, item := range items {
		out = append(out, item.Float())
	}

	return out
}

func readSourceFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrSourceFileReadFailed, "%s: %s", path, err.Error())
	}

	return raw, nil
}

// Package wavefront exports scene geometry as Wavefront OBJ files: a
// master file that calls one OBJ per graphics group.
package wavefront

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/anatomap/sceneport"
	"github.com/anatomap/sceneport/export"
	"github.com/anatomap/sceneport/options"
)

const DefaultPrefix = "scene"

// Exporter writes <prefix>_base.obj plus one numbered OBJ per group
// into the output target.
type Exporter struct {
	export.Base
}

func New(opts *options.ExportOptions) *Exporter {
	return &Exporter{Base: export.NewBase(DefaultPrefix, opts)}
}

type objFile struct {
	name    string
	content []byte
}

// Export writes the whole region tree.
func (e *Exporter) Export(doc *sceneport.Document) error {
	return e.ExportFromRegion(doc.RootRegion())
}

// ExportFromRegion writes the region subtree.
func (e *Exporter) ExportFromRegion(region *sceneport.Region) error {
	files := e.collectFiles(region)
	if len(files) == 0 {
		return errors.Wrap(export.ErrNothingToExport, "no geometry in scene")
	}

	master := &bytes.Buffer{}
	for _, f := range files {
		fmt.Fprintf(master, "call %s\n", f.name)
	}

	if err := e.WriteFile(e.Prefix()+"_base.obj", master.Bytes()); err != nil {
		return err
	}

	for _, f := range files {
		if err := e.WriteFile(f.name, f.content); err != nil {
			return err
		}
	}

	e.Logger().Info(
		"wavefront exported",
		zap.String("target", e.OutputTarget()),
		zap.Int("files", len(files)),
	)

	return nil
}

func (e *Exporter) collectFiles(root *sceneport.Region) []objFile {
	var files []objFile
	ordinals := make(map[string]int)

	nextName := func(base string) string {
		ordinals[base]++
		return fmt.Sprintf("%s.%d.obj", base, ordinals[base])
	}

	root.Walk(func(r *sceneport.Region) bool {
		grouped := make(map[int]bool)
		for _, g := range r.Groups() {
			for _, el := range g.Elements() {
				grouped[el.Identifier()] = true
			}

			if !e.Filter().Match(g.Name()) {
				continue
			}

			content := encodeOBJ(g.Name(), g.LineElements(), g.SurfaceElements())
			if content == nil {
				continue
			}

			files = append(files, objFile{name: nextName(sanitizeName(g.Name())), content: content})
		}

		var freeLines, freeSurfaces []*sceneport.Element
		r.Mesh().ForEachElement(func(el *sceneport.Element) bool {
			if grouped[el.Identifier()] {
				return true
			}

			if el.IsLine() {
				freeLines = append(freeLines, el)
			} else if el.IsSurface() {
				freeSurfaces = append(freeSurfaces, el)
			}

			return true
		})

		if content := encodeOBJ(e.Prefix(), freeLines, freeSurfaces); content != nil {
			files = append(files, objFile{name: nextName(e.Prefix()), content: content})
		}

		return true
	})

	return files
}

// encodeOBJ renders one group with file-local 1-based vertex
// numbering: polylines from chained line elements, faces from
// surfaces. Nil means the group holds no geometry.
func encodeOBJ(name string, lines, surfaces []*sceneport.Element) []byte {
	if len(lines) == 0 && len(surfaces) == 0 {
		return nil
	}

	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, "g %s\n", sanitizeName(name))

	vertexIndex := make(map[int]int)
	var vertexLines []string

	indexOf := func(n *sceneport.Node) int {
		if idx, ok := vertexIndex[n.Identifier()]; ok {
			return idx
		}

		idx := len(vertexIndex) + 1
		vertexIndex[n.Identifier()] = idx

		coords := n.Coordinates()
		v := "v"
		for _, c := range coords {
			v += fmt.Sprintf(" %g", c)
		}
		for i := len(coords); i < 3; i++ {
			v += " 0"
		}
		vertexLines = append(vertexLines, v)

		return idx
	}

	var statements []string
	for _, chain := range sceneport.LineChains(lines) {
		stmt := fmt.Sprintf("l %d", indexOf(chain[0].Nodes()[0]))
		for _, el := range chain {
			stmt += fmt.Sprintf(" %d", indexOf(el.Nodes()[1]))
		}

		statements = append(statements, stmt)
	}

	for _, el := range surfaces {
		stmt := "f"
		for _, n := range el.Nodes() {
			stmt += fmt.Sprintf(" %d", indexOf(n))
		}

		statements = append(statements, stmt)
	}

	for _, v := range vertexLines {
		fmt.Fprintln(buf, v)
	}
	for _, s := range statements {
		fmt.Fprintln(buf, s)
	}

	return buf.Bytes()
}

func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "/", "_")
	if name == "" {
		name = "unnamed"
	}

	return name
}

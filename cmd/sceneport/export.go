package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/anatomap/sceneport"
	"github.com/anatomap/sceneport/export/flatmapsvg"
	"github.com/anatomap/sceneport/export/mbfxml"
	"github.com/anatomap/sceneport/export/stl"
	"github.com/anatomap/sceneport/export/thumbnail"
	"github.com/anatomap/sceneport/export/wavefront"
	"github.com/anatomap/sceneport/export/webgl"
	"github.com/anatomap/sceneport/options"
)

// runSettings is the merge of profile values and command line flags;
// flags win.
type runSettings struct {
	document string
	opts     *options.ExportOptions

	// tessellation is only applied when a flag or profile set it;
	// otherwise the document's saved level is left alone.
	tessellation    sceneport.TessellationLevel
	tessellationSet bool

	levels      bool
	annotations string
	ascii       bool
}

func resolveSettings(c *cli.Context) (*runSettings, error) {
	p, err := loadProfile(c.String(flagProfile.Name))
	if err != nil {
		return nil, err
	}

	pick := func(flag, fromProfile string) string {
		if flag != "" {
			return flag
		}
		return fromProfile
	}

	s := &runSettings{
		document:    pick(c.String(flagDocument.Name), p.Document),
		annotations: pick(c.String(flagAnnotations.Name), p.Annotations),
		levels:      p.Levels,
		ascii:       p.ASCII,
	}

	if s.document == "" {
		return nil, fmt.Errorf("a scene document is required, set --%s or a profile", flagDocument.Name)
	}

	if c.IsSet(flagLevels.Name) {
		s.levels = c.Bool(flagLevels.Name)
	}
	if c.IsSet(flagASCII.Name) {
		s.ascii = c.Bool(flagASCII.Name)
	}

	if name := pick(c.String(flagTessellation.Name), p.Tessellation); name != "" {
		s.tessellation, err = tessellationLevel(name)
		if err != nil {
			return nil, err
		}
		s.tessellationSet = true
	}

	s.opts = options.Export()
	if target := pick(c.String(flagOutput.Name), p.Output); target != "" {
		s.opts.Target(target)
	}
	if prefix := pick(c.String(flagPrefix.Name), p.Prefix); prefix != "" {
		s.opts.Prefix(prefix)
	}

	patterns := c.StringSlice(flagFilter.Name)
	if len(patterns) == 0 {
		patterns = p.Filter
	}
	if len(patterns) > 0 {
		s.opts.Filter(patterns...)
	}

	return s, nil
}

func (s *runSettings) load(loader *sceneport.Loader) (*sceneport.Document, error) {
	var (
		doc *sceneport.Document
		err error
	)

	if loader != nil {
		doc, err = loader.LoadDocument(s.document)
	} else {
		doc, err = sceneport.LoadDocument(s.document)
	}
	if err != nil {
		return nil, err
	}

	if s.tessellationSet {
		doc.SetTessellation(s.tessellation)
	}
	return doc, nil
}

var webglCmd = &cli.Command{
	Name:  "webgl",
	Usage: "export three.js JSON geometry with a metadata index",
	Flags: []cli.Flag{flagLevels},
	Action: func(c *cli.Context) error {
		s, err := resolveSettings(c)
		if err != nil {
			return err
		}

		doc, err := s.load(nil)
		if err != nil {
			return err
		}

		e := webgl.New(s.opts)
		e.SetLogger(logger)
		e.SetMultipleLevels(s.levels)
		return e.Export(doc)
	},
}

var flatmapSVGCmd = &cli.Command{
	Name:  "flatmap-svg",
	Usage: "export a flatmap SVG with a properties.json sidecar",
	Flags: []cli.Flag{flagAnnotations},
	Action: func(c *cli.Context) error {
		s, err := resolveSettings(c)
		if err != nil {
			return err
		}

		doc, err := s.load(nil)
		if err != nil {
			return err
		}

		e := flatmapsvg.New(s.opts)
		e.SetLogger(logger)
		e.SetAnnotationsCSVFile(s.annotations)
		return e.Export(doc)
	},
}

var stlCmd = &cli.Command{
	Name:  "stl",
	Usage: "export surface geometry as an STL triangle soup",
	Flags: []cli.Flag{flagASCII},
	Action: func(c *cli.Context) error {
		s, err := resolveSettings(c)
		if err != nil {
			return err
		}

		doc, err := s.load(nil)
		if err != nil {
			return err
		}

		e := stl.New(s.opts)
		e.SetLogger(logger)
		e.SetASCII(s.ascii)
		return e.Export(doc)
	},
}

var wavefrontCmd = &cli.Command{
	Name:  "wavefront",
	Usage: "export Wavefront OBJ files, one per graphics group",
	Action: func(c *cli.Context) error {
		s, err := resolveSettings(c)
		if err != nil {
			return err
		}

		doc, err := s.load(nil)
		if err != nil {
			return err
		}

		e := wavefront.New(s.opts)
		e.SetLogger(logger)
		return e.Export(doc)
	},
}

var mbfxmlCmd = &cli.Command{
	Name:  "mbfxml",
	Usage: "export line geometry as MBF Bioscience XML",
	Action: func(c *cli.Context) error {
		s, err := resolveSettings(c)
		if err != nil {
			return err
		}

		doc, err := s.load(nil)
		if err != nil {
			return err
		}

		e := mbfxml.New(s.opts)
		e.SetLogger(logger)
		if !e.IsValid(doc) {
			return fmt.Errorf("document %s has no line elements to form trees from", s.document)
		}
		return e.Export(doc)
	},
}

var thumbnailCmd = &cli.Command{
	Name:  "thumbnail",
	Usage: "render view thumbnails as JPEG images",
	Action: func(c *cli.Context) error {
		s, err := resolveSettings(c)
		if err != nil {
			return err
		}

		doc, err := s.load(nil)
		if err != nil {
			return err
		}

		e := thumbnail.New(s.opts)
		e.SetLogger(logger)
		return e.Export(doc)
	},
}

var allCmd = &cli.Command{
	Name:  "all",
	Usage: "export every format concurrently",
	Flags: []cli.Flag{flagLevels, flagAnnotations, flagASCII},
	Action: func(c *cli.Context) error {
		s, err := resolveSettings(c)
		if err != nil {
			return err
		}

		loader, err := sceneport.NewLoader(nil)
		if err != nil {
			return err
		}

		return exportAll(s, loader)
	},
}

// exportAll runs one export per format in parallel. Each format loads
// its own document through the shared loader so the model cache is
// hit but no mutable scene state is shared across goroutines.
func exportAll(s *runSettings, loader *sceneport.Loader) error {
	runLogger := logger.With(zap.String("run", uuid.NewString()))

	type format struct {
		name   string
		export func(doc *sceneport.Document) error
	}

	formats := []format{
		{name: "webgl", export: func(doc *sceneport.Document) error {
			e := webgl.New(s.opts)
			e.SetLogger(runLogger)
			e.SetMultipleLevels(s.levels)
			return e.Export(doc)
		}},
		{name: "flatmap-svg", export: func(doc *sceneport.Document) error {
			e := flatmapsvg.New(s.opts)
			e.SetLogger(runLogger)
			e.SetAnnotationsCSVFile(s.annotations)
			return e.Export(doc)
		}},
		{name: "stl", export: func(doc *sceneport.Document) error {
			e := stl.New(s.opts)
			e.SetLogger(runLogger)
			e.SetASCII(s.ascii)
			return e.Export(doc)
		}},
		{name: "wavefront", export: func(doc *sceneport.Document) error {
			e := wavefront.New(s.opts)
			e.SetLogger(runLogger)
			return e.Export(doc)
		}},
		{name: "mbfxml", export: func(doc *sceneport.Document) error {
			e := mbfxml.New(s.opts)
			e.SetLogger(runLogger)
			if !e.IsValid(doc) {
				runLogger.Warn("mbfxml skipped, no line elements", zap.String("document", s.document))
				return nil
			}
			return e.Export(doc)
		}},
		{name: "thumbnail", export: func(doc *sceneport.Document) error {
			e := thumbnail.New(s.opts)
			e.SetLogger(runLogger)
			return e.Export(doc)
		}},
	}

	g := errgroup.Group{}
	for _, f := range formats {
		f := f
		g.Go(func() error {
			doc, err := s.load(loader)
			if err != nil {
				return fmt.Errorf("%s: %w", f.name, err)
			}

			if err := f.export(doc); err != nil {
				return fmt.Errorf("%s: %w", f.name, err)
			}

			runLogger.Debug("format exported", zap.String("format", f.name))
			return nil
		})
	}

	return g.Wait()
}

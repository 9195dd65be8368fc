// Command sceneport converts mesh scene documents into interchange
// formats: WebGL JSON, flatmap SVG, STL, Wavefront OBJ, MBF XML and
// JPEG thumbnails.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/anatomap/sceneport"
)

var logger *zap.Logger

var flagDocument = &cli.StringFlag{
	Name:    "document",
	Aliases: []string{"d"},
	Usage:   "scene document to export",
	EnvVars: []string{"SCENEPORT_DOCUMENT"},
}

var flagOutput = &cli.StringFlag{
	Name:    "output",
	Aliases: []string{"o"},
	Usage:   "directory the export files are written to",
}

var flagPrefix = &cli.StringFlag{
	Name:  "prefix",
	Usage: "filename prefix, defaults per format",
}

var flagFilter = &cli.StringSliceFlag{
	Name:  "filter",
	Usage: "graphics name pattern, colon segmented; may repeat",
}

var flagTessellation = &cli.StringFlag{
	Name:  "tessellation",
	Usage: "curve refinement: low, medium or high; defaults to the document's own setting",
}

var flagProfile = &cli.StringFlag{
	Name:    "profile",
	Usage:   "YAML file with default export settings",
	EnvVars: []string{"SCENEPORT_PROFILE"},
}

var flagVerbose = &cli.BoolFlag{
	Name:    "verbose",
	Aliases: []string{"v"},
	Usage:   "debug logging",
}

var flagLevels = &cli.BoolFlag{
	Name:  "levels",
	Usage: "export multiple levels of detail",
}

var flagAnnotations = &cli.StringFlag{
	Name:  "annotations",
	Usage: "CSV table mapping term identifiers to group names",
}

var flagASCII = &cli.BoolFlag{
	Name:  "ascii",
	Usage: "write ASCII STL instead of binary",
}

// profile mirrors the command line flags so recurring export setups
// can live in a YAML file; explicit flags win over profile values.
type profile struct {
	Document     string   `yaml:"document"`
	Output       string   `yaml:"output"`
	Prefix       string   `yaml:"prefix"`
	Filter       []string `yaml:"filter"`
	Tessellation string   `yaml:"tessellation"`
	Levels       bool     `yaml:"levels"`
	Annotations  string   `yaml:"annotations"`
	ASCII        bool     `yaml:"ascii"`
}

func loadProfile(path string) (*profile, error) {
	if path == "" {
		return &profile{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read profile %s: %w", path, err)
	}

	var p profile
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("could not parse profile %s: %w", path, err)
	}

	return &p, nil
}

func before(c *cli.Context) error {
	cfg := zap.NewProductionConfig()
	if c.Bool(flagVerbose.Name) {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	l, err := cfg.Build()
	if err != nil {
		return err
	}

	logger = l
	return nil
}

func main() {
	app := &cli.App{
		Name:                 "sceneport",
		Usage:                "export mesh scene documents to interchange formats",
		EnableBashCompletion: true,
		Before:               before,
		Flags: []cli.Flag{
			flagDocument,
			flagOutput,
			flagPrefix,
			flagFilter,
			flagTessellation,
			flagProfile,
			flagVerbose,
		},
		Commands: []*cli.Command{
			webglCmd,
			flatmapSVGCmd,
			stlCmd,
			wavefrontCmd,
			mbfxmlCmd,
			thumbnailCmd,
			allCmd,
			watchCmd,
		},
		After: func(*cli.Context) error {
			if logger != nil {
				_ = logger.Sync()
			}
			return nil
		},
	}
	app.Setup()

	if err := app.Run(os.Args); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func tessellationLevel(name string) (sceneport.TessellationLevel, error) {
	switch name {
	case "medium":
		return sceneport.TessellationMedium, nil
	case "low":
		return sceneport.TessellationLow, nil
	case "high":
		return sceneport.TessellationHigh, nil
	default:
		return "", fmt.Errorf("unknown tessellation level %q", name)
	}
}

// Package webgl exports a scene as the three.js style JSON resource
// set scene viewers load: a metadata index, one geometry file per
// graphics, per-view camera files and optional level of detail sets.
package webgl

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/anatomap/sceneport"
	"github.com/anatomap/sceneport/export"
	"github.com/anatomap/sceneport/options"
)

const DefaultPrefix = "scene"

// Exporter writes <prefix>_metadata.json, numbered geometry files and
// <prefix>_<view>_view.json files into the output target.
type Exporter struct {
	export.Base
	multipleLevels bool
}

func New(opts *options.ExportOptions) *Exporter {
	return &Exporter{Base: export.NewBase(DefaultPrefix, opts)}
}

// SetMultipleLevels turns on level of detail output: medium and high
// tessellation geometry sets next to the low tessellation outer set.
func (e *Exporter) SetMultipleLevels(on bool) {
	e.multipleLevels = on
}

type viewData struct {
	FarPlane       float64   `json:"farPlane"`
	NearPlane      float64   `json:"nearPlane"`
	EyePosition    []float64 `json:"eyePosition"`
	TargetPosition []float64 `json:"targetPosition"`
	UpVector       []float64 `json:"upVector"`
	ViewAngle      float64   `json:"viewAngle"`
}

type lodLevel struct {
	URL string `json:"URL"`
}

type lodObject struct {
	Preload bool                `json:"Preload"`
	Levels  map[string]lodLevel `json:"Levels"`
}

type metadataEntry struct {
	Type             string     `json:"Type"`
	URL              string     `json:"URL,omitempty"`
	GroupName        string     `json:"GroupName,omitempty"`
	RegionPath       string     `json:"RegionPath,omitempty"`
	LOD              *lodObject `json:"LOD,omitempty"`
	Duration         string     `json:"Duration,omitempty"`
	OriginalDuration string     `json:"OriginalDuration,omitempty"`
}

// Export writes the full resource set for the document.
func (e *Exporter) Export(doc *sceneport.Document) error {
	if e.multipleLevels {
		for _, level := range []sceneport.TessellationLevel{
			sceneport.TessellationMedium,
			sceneport.TessellationHigh,
		} {
			doc.SetTessellation(level)
			if err := e.exportGeometry(doc, string(level)); err != nil {
				return err
			}
		}

		// the outer resource set stays at low tessellation; the
		// viewer swaps the finer levels in as the camera closes in
		doc.SetTessellation(sceneport.TessellationLow)
	}

	if err := e.ExportViews(doc); err != nil {
		return err
	}

	return e.exportGeometry(doc, "")
}

// ExportViews writes the camera parameters of every one-scene view.
func (e *Exporter) ExportViews(doc *sceneport.Document) error {
	for _, view := range doc.Views() {
		sv := view.Sceneviewer()
		if sv == nil {
			continue
		}

		data, err := json.Marshal(viewData{
			FarPlane:       sv.FarClippingPlane,
			NearPlane:      sv.NearClippingPlane,
			EyePosition:    sv.EyePosition,
			TargetPosition: sv.LookatPosition,
			UpVector:       sv.UpVector,
			ViewAngle:      sv.ViewAngle,
		})
		if err != nil {
			return errors.Wrapf(err, "could not marshal view %s", view.Name())
		}

		if err := e.WriteFile(e.viewFilename(view.Name()), data); err != nil {
			return err
		}
	}

	return nil
}

// exportGeometry writes one numbered geometry file per graphics. An
// empty level writes the outer set together with the metadata index;
// a named level writes only the level's geometry files.
func (e *Exporter) exportGeometry(doc *sceneport.Document, level string) error {
	divisions := doc.Tessellation().Divisions()
	resources := collectResources(doc.RootRegion(), e.Filter(), divisions, e.ResolveTimeRange(doc))
	if len(resources) == 0 {
		e.Logger().Info("webgl export skipped, scene has no graphics")
		return nil
	}

	digits := int(math.Floor(math.Log10(float64(len(resources))))) + 1

	var g errgroup.Group
	for i := range resources {
		i := i
		g.Go(func() error {
			data, err := json.Marshal(resources[i].geometry)
			if err != nil {
				return errors.Wrapf(err, "could not marshal geometry resource %d", i+1)
			}

			return e.WriteFile(resourceFilename(e.Prefix(), i+1, level, digits), data)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if level != "" {
		return nil
	}

	return e.writeMetadata(doc, resources, digits)
}

func (e *Exporter) writeMetadata(doc *sceneport.Document, resources []resource, digits int) error {
	entries := make([]metadataEntry, 0, len(resources)+2)
	for i, res := range resources {
		entries = append(entries, metadataEntry{
			Type:       res.entryType,
			URL:        resourceFilename(e.Prefix(), i+1, "", digits),
			GroupName:  res.groupName,
			RegionPath: res.regionPath,
		})
	}

	if e.multipleLevels {
		entries[0].LOD = e.defaultLOD(1, digits)
	}

	if active := doc.ActiveView(); active != "" && doc.FindView(active) != nil {
		entries = append(entries, metadataEntry{
			Type: "View",
			URL:  e.viewFilename(active),
		})
	}

	if settings := e.settingsEntry(doc); settings != nil {
		entries = append(entries, *settings)
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return errors.Wrap(err, "could not marshal webgl metadata")
	}

	if err := e.WriteFile(e.metadataFilename(), data); err != nil {
		return err
	}

	e.Logger().Info(
		"webgl scene exported",
		zap.String("target", e.OutputTarget()),
		zap.Int("resources", len(resources)),
		zap.Bool("lod", e.multipleLevels),
	)

	return nil
}

// settingsEntry describes the animation duration in ISO-8601 form when
// the export is time dependent.
func (e *Exporter) settingsEntry(doc *sceneport.Document) *metadataEntry {
	tr := e.ResolveTimeRange(doc)
	if tr == nil {
		return nil
	}

	duration := fmt.Sprintf("PT%dS", int(tr.Finish-tr.Initial))
	return &metadataEntry{
		Type:             "Settings",
		Duration:         duration,
		OriginalDuration: duration,
	}
}

func (e *Exporter) defaultLOD(index, digits int) *lodObject {
	return &lodObject{
		Preload: false,
		Levels: map[string]lodLevel{
			"medium": {URL: resourceFilename(e.Prefix(), index, string(sceneport.TessellationMedium), digits)},
			"close":  {URL: resourceFilename(e.Prefix(), index, string(sceneport.TessellationHigh), digits)},
		},
	}
}

func (e *Exporter) viewFilename(name string) string {
	return fmt.Sprintf("%s_%s_view.json", e.Prefix(), name)
}

func (e *Exporter) metadataFilename() string {
	return e.Prefix() + "_metadata.json"
}

func resourceFilename(prefix string, i int, level string, digits int) string {
	if level != "" {
		return fmt.Sprintf("%s_%s_%0*d.json", prefix, level, digits, i)
	}

	return fmt.Sprintf("%s_%0*d.json", prefix, digits, i)
}

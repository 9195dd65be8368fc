package sceneport

import "github.com/jinzhu/copier"

// Sceneviewer carries the camera parameters a view was saved with.
type Sceneviewer struct {
	FarClippingPlane  float64
	NearClippingPlane float64
	EyePosition       []float64
	LookatPosition    []float64
	UpVector          []float64
	ViewAngle         float64
}

// Clone deep copies the viewer so exporters can adjust cameras without
// touching the loaded document.
func (sv *Sceneviewer) Clone() *Sceneviewer {
	var cp Sceneviewer
	if err := copier.CopyWithOption(&cp, sv, copier.Option{DeepCopy: true}); err != nil {
		panic("could not copy sceneviewer: " + err.Error())
	}

	return &cp
}

// View is a named layout holding the sceneviewers of its scenes. The
// documents written by the editor only ever hold one scene per view,
// but the format allows more.
type View struct {
	name    string
	viewers []*Sceneviewer
}

func (v *View) Name() string {
	return v.name
}

func (v *View) Sceneviewers() []*Sceneviewer {
	return v.viewers
}

// Sceneviewer returns the single viewer of a one-scene view, nil
// otherwise.
func (v *View) Sceneviewer() *Sceneviewer {
	if len(v.viewers) != 1 {
		return nil
	}

	return v.viewers[0]
}

package flatmapsvg

import (
	"encoding/csv"
	"os"

	"github.com/pkg/errors"

	"github.com/anatomap/sceneport"
)

var ErrAnnotationFileUnreadable = errors.New("annotation csv file could not be read")

const annotationTermHeader = "Term ID"
const annotationGroupHeader = "Group name"

type feature struct {
	Colour string `json:"colour,omitempty"`
	Label  string `json:"label,omitempty"`
	Models string `json:"models,omitempty"`
	Name   string `json:"name,omitempty"`
	Type   string `json:"type,omitempty"`
}

type centreline struct {
	ID string `json:"id"`
}

type network struct {
	Centrelines []centreline `json:"centrelines"`
}

type properties struct {
	Features map[string]feature `json:"features"`
	Networks []network          `json:"networks"`
}

// buildProperties describes every group as a centreline feature and
// every marker as an annotated point feature. reverseMap carries group
// name to ontology term associations, and may be nil.
func buildProperties(buckets []*pathBucket, markers []*sceneport.Marker, reverseMap map[string]string) properties {
	props := properties{
		Features: make(map[string]feature),
		Networks: []network{},
	}

	for _, pb := range buckets {
		if !pb.grouped() {
			continue
		}

		f := feature{
			Label: pb.name,
			Type:  "centreline",
		}

		if term, ok := reverseMap[pb.name]; ok && term != "" {
			f.Models = term
		}

		props.Features[pb.svgID] = f
	}

	// connectivity between centrelines is not described yet, so the
	// network list stays empty

	for _, mk := range markers {
		props.Features[mk.Label()] = feature{
			Name:   mk.Name(),
			Models: mk.Term(),
			Colour: "orange",
		}
	}

	return props
}

// reverseAnnotationMap reads a Term ID / Group name CSV into a group
// name keyed map. A file that does not follow the expected layout is
// ignored, not an error; an unreadable file is.
func reverseAnnotationMap(path string) (map[string]string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrAnnotationFileUnreadable, "%s: %s", path, err.Error())
	}
	defer func() {
		_ = fh.Close()
	}()

	reader := csv.NewReader(fh)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil
	}

	if !isAnnotationTable(rows) {
		return nil, nil
	}

	reverseMap := make(map[string]string, len(rows)-1)
	for _, row := range rows[1:] {
		reverseMap[row[1]] = row[0]
	}

	return reverseMap, nil
}

func isAnnotationTable(rows [][]string) bool {
	if len(rows) == 0 {
		return false
	}

	header := rows[0]
	if len(header) != 2 || header[0] != annotationTermHeader || header[1] != annotationGroupHeader {
		return false
	}

	for _, row := range rows[1:] {
		if len(row) != 2 {
			return false
		}
	}

	return true
}

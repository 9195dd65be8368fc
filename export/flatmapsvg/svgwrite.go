package flatmapsvg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/anatomap/sceneport"
)

const groupedStroke = "#01136e"
const ungroupedStroke = "grey"

const svgViewBoxPlaceholder = `viewBox="WWW XXX YYY ZZZ"`

func fnum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// pathData renders connected segments as absolute M/C command text.
func pathData(segments [][]bezierCurve) string {
	var sb strings.Builder
	for i, section := range segments {
		if i > 0 {
			sb.WriteString(" ")
		}

		for j, b := range section {
			if j == 0 {
				fmt.Fprintf(&sb, "M %s %s", fnum(b[0][0]), fnum(b[0][1]))
			}

			fmt.Fprintf(
				&sb,
				" C %s %s, %s %s, %s %s",
				fnum(b[1][0]), fnum(b[1][1]),
				fnum(b[2][0]), fnum(b[2][1]),
				fnum(b[3][0]), fnum(b[3][1]),
			)
		}
	}

	return sb.String()
}

// writeSVG renders the document with a placeholder viewBox; the caller
// measures the returned path data and patches the real box in. Markers
// become invisible hit-target circles.
func writeSVG(buckets []*pathBucket, markers []*sceneport.Marker) (string, []string) {
	var sb strings.Builder
	var pathStrings []string

	sb.WriteString(`<svg width="1000" height="1000" ` + svgViewBoxPlaceholder + ` xmlns="http://www.w3.org/2000/svg">`)
	sb.WriteString("\n")

	for _, pb := range buckets {
		if len(pb.beziers) == 0 {
			continue
		}

		d := pathData(connectedSegments(pb.beziers))
		pathStrings = append(pathStrings, d)

		if pb.grouped() {
			fmt.Fprintf(
				&sb,
				"  <path d=\"%s\" stroke=\"%s\" fill=\"none\"><title>.centreline id(%s)</title></path>\n",
				d, groupedStroke, pb.svgID,
			)
		} else {
			fmt.Fprintf(&sb, "  <path d=\"%s\" stroke=\"%s\" fill=\"none\"/>\n", d, ungroupedStroke)
		}
	}

	for _, mk := range markers {
		coords := mk.Coordinates()
		if len(coords) < 2 {
			continue
		}

		fmt.Fprintf(
			&sb,
			"  <circle cx=\"%s\" cy=\"%s\" r=\"3\" fill-opacity=\"0.0\"><title>.id(%s)</title></circle>\n",
			fnum(coords[0]), fnum(coords[1]), mk.Label(),
		)
	}

	sb.WriteString("</svg>\n")

	return sb.String(), pathStrings
}

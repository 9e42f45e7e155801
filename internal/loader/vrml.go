package loader

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/robolab-io/sotg/internal/model"
)

// VRML loads the multi-file OpenHRP layout: an extended VRML scene holding
// the kinematic chain, plus two XML metadata files carrying body
// specificities (masses, centers of mass, inertias, reference points) and
// joint ranks (chain ordering and parenthood).
type VRML struct {
	ModelDir          string
	ModelName         string
	SpecificitiesPath string
	JointRankPath     string
}

// NewVRML returns a loader for modelDir/modelName.wrl plus the two metadata
// files.
func NewVRML(modelDir, modelName, specificitiesPath, jointRankPath string) *VRML {
	return &VRML{
		ModelDir:          modelDir,
		ModelName:         modelName,
		SpecificitiesPath: specificitiesPath,
		JointRankPath:     jointRankPath,
	}
}

// wrlJoint is what the scene file contributes per joint.
type wrlJoint struct {
	axis   [3]float64
	offset [3]float64
}

type rankFile struct {
	XMLName xml.Name    `xml:"jointRank"`
	Ranks   []rankEntry `xml:"rank"`
}

type rankEntry struct {
	Joint  string `xml:"joint,attr"`
	Parent string `xml:"parent,attr"`
}

type specFile struct {
	XMLName xml.Name    `xml:"specificities"`
	Joints  []specJoint `xml:"joint"`
	Points  []specPoint `xml:"point"`
}

type specJoint struct {
	Name    string  `xml:"name,attr"`
	Mass    float64 `xml:"mass"`
	CoM     string  `xml:"com"`
	Inertia string  `xml:"inertia"`
}

type specPoint struct {
	Name  string `xml:"name,attr"`
	Joint string `xml:"joint,attr"`
}

// Load assembles the three sources into one model handle. The flag profile
// after a successful load matches the single-file loader.
func (l *VRML) Load(name string) (*model.Dynamics, error) {
	scenePath := filepath.Join(l.ModelDir, l.ModelName+".wrl")
	joints, err := parseScene(scenePath)
	if err != nil {
		return nil, err
	}

	var ranks rankFile
	if err := readXML(l.JointRankPath, &ranks); err != nil {
		return nil, err
	}
	if len(ranks.Ranks) == 0 {
		return nil, loadError(l.JointRankPath, fmt.Errorf("no joint ranks"))
	}

	var spec specFile
	if err := readXML(l.SpecificitiesPath, &spec); err != nil {
		return nil, err
	}
	bodies := make(map[string]specJoint, len(spec.Joints))
	for _, j := range spec.Joints {
		bodies[j.Name] = j
	}

	desc := &model.Description{
		Name:      l.ModelName,
		Reference: make(map[string]string, len(spec.Points)),
	}
	index := make(map[string]int, len(ranks.Ranks))
	for i, r := range ranks.Ranks {
		wj, ok := joints[r.Joint]
		if !ok {
			return nil, loadError(scenePath, fmt.Errorf("ranked joint %q not in scene", r.Joint))
		}
		parent := -1
		if r.Parent != "" {
			p, ok := index[r.Parent]
			if !ok {
				return nil, loadError(l.JointRankPath, fmt.Errorf("joint %q: parent %q ranked after it", r.Joint, r.Parent))
			}
			parent = p
		}
		j := model.Joint{
			Name:   r.Joint,
			Parent: parent,
			Axis:   wj.axis,
			Offset: wj.offset,
		}
		if body, ok := bodies[r.Joint]; ok {
			j.Mass = body.Mass
			if j.CoM, err = parseTriple(body.CoM); err != nil {
				return nil, loadError(l.SpecificitiesPath, fmt.Errorf("joint %q com: %v", r.Joint, err))
			}
			if j.Inertia, err = parseSix(body.Inertia); err != nil {
				return nil, loadError(l.SpecificitiesPath, fmt.Errorf("joint %q inertia: %v", r.Joint, err))
			}
		}
		desc.Joints = append(desc.Joints, j)
		index[r.Joint] = i
	}
	for _, p := range spec.Points {
		desc.Reference[p.Name] = p.Joint
	}

	if err := desc.Validate(); err != nil {
		return nil, loadError(scenePath, err)
	}

	dyn := model.NewDynamics(name, desc)
	applyDefaultProperties(dyn)
	return dyn, nil
}

// parseScene scans an extended-VRML file for DEF ... Joint nodes and their
// jointAxis / translation fields. Everything else in the scene (geometry,
// materials, mesh references) is skipped.
func parseScene(path string) (map[string]wrlJoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, loadError(path, err)
	}
	defer f.Close()

	joints := make(map[string]wrlJoint)
	current := ""
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "DEF":
			if len(fields) >= 3 && fields[2] == "Joint" {
				current = fields[1]
				joints[current] = wrlJoint{}
			} else {
				current = ""
			}
		case "jointAxis":
			if current == "" || len(fields) < 2 {
				continue
			}
			j := joints[current]
			axis, err := parseAxis(fields[1:])
			if err != nil {
				return nil, loadError(path, fmt.Errorf("joint %q: %v", current, err))
			}
			j.axis = axis
			joints[current] = j
		case "translation":
			if current == "" || len(fields) != 4 {
				continue
			}
			j := joints[current]
			if j.offset, err = parseTriple(strings.Join(fields[1:], " ")); err != nil {
				return nil, loadError(path, fmt.Errorf("joint %q: %v", current, err))
			}
			joints[current] = j
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, loadError(path, err)
	}
	if len(joints) == 0 {
		return nil, loadError(path, fmt.Errorf("scene defines no joints"))
	}
	return joints, nil
}

// parseAxis accepts either the quoted single-letter form ("X", "Y", "Z") or
// three numeric components.
func parseAxis(fields []string) ([3]float64, error) {
	if len(fields) == 1 {
		switch strings.Trim(fields[0], `"`) {
		case "X":
			return [3]float64{1, 0, 0}, nil
		case "Y":
			return [3]float64{0, 1, 0}, nil
		case "Z":
			return [3]float64{0, 0, 1}, nil
		default:
			return [3]float64{}, fmt.Errorf("bad axis %s", fields[0])
		}
	}
	return parseTriple(strings.Join(fields, " "))
}

// parseSix reads six whitespace-separated inertia components; empty means
// the metadata omitted them.
func parseSix(s string) ([6]float64, error) {
	var out [6]float64
	if strings.TrimSpace(s) == "" {
		return out, nil
	}
	fields := strings.Fields(s)
	if len(fields) != 6 {
		return out, fmt.Errorf("expected 6 components, got %d", len(fields))
	}
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return out, err
		}
		out[i] = v
	}
	return out, nil
}

// readXML unmarshals one metadata file.
func readXML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return loadError(path, err)
	}
	if err := xml.Unmarshal(data, v); err != nil {
		return loadError(path, err)
	}
	return nil
}

package loader

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/robolab-io/sotg/internal/model"
)

// KXML loads a single-file mesh descriptor: mesh references, kinematic chain
// and inertial parameters in one XML document. Inertia blocks are mandatory;
// a mesh-only file is rejected.
type KXML struct {
	Path string
}

// NewKXML returns a loader for the given descriptor file.
func NewKXML(path string) *KXML {
	return &KXML{Path: path}
}

type kxmlFile struct {
	XMLName xml.Name  `xml:"kxml"`
	Robot   kxmlRobot `xml:"robot"`
}

type kxmlRobot struct {
	Name   string      `xml:"name,attr"`
	Joints []kxmlJoint `xml:"joint"`
	Points []kxmlPoint `xml:"point"`
}

type kxmlJoint struct {
	Name   string    `xml:"name,attr"`
	Parent string    `xml:"parent,attr"`
	Axis   string    `xml:"axis,attr"`
	Offset string    `xml:"offset,attr"`
	Body   *kxmlBody `xml:"body"`
	Mesh   *kxmlMesh `xml:"mesh"`
}

type kxmlBody struct {
	Mass    float64      `xml:"mass,attr"`
	CoM     string       `xml:"com,attr"`
	Inertia *kxmlInertia `xml:"inertia"`
}

type kxmlInertia struct {
	Ixx float64 `xml:"ixx,attr"`
	Iyy float64 `xml:"iyy,attr"`
	Izz float64 `xml:"izz,attr"`
	Ixy float64 `xml:"ixy,attr"`
	Ixz float64 `xml:"ixz,attr"`
	Iyz float64 `xml:"iyz,attr"`
}

type kxmlMesh struct {
	File string `xml:"file,attr"`
}

type kxmlPoint struct {
	Name  string `xml:"name,attr"`
	Joint string `xml:"joint,attr"`
}

// Load parses the descriptor and returns a handle named after the robot
// entity. On success the handle carries the fixed flag profile.
func (l *KXML) Load(name string) (*model.Dynamics, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, loadError(l.Path, err)
	}

	var file kxmlFile
	if err := xml.Unmarshal(data, &file); err != nil {
		return nil, loadError(l.Path, err)
	}
	if len(file.Robot.Joints) == 0 {
		return nil, loadError(l.Path, fmt.Errorf("descriptor has no joints"))
	}

	desc := &model.Description{
		Name:      file.Robot.Name,
		Reference: make(map[string]string, len(file.Robot.Points)),
	}
	index := make(map[string]int, len(file.Robot.Joints))
	for i, j := range file.Robot.Joints {
		if j.Body == nil {
			return nil, loadError(l.Path, fmt.Errorf("joint %q has no body", j.Name))
		}
		if j.Body.Inertia == nil {
			return nil, loadError(l.Path, fmt.Errorf("joint %q has no inertia data", j.Name))
		}
		parent := -1
		if j.Parent != "" {
			p, ok := index[j.Parent]
			if !ok {
				return nil, loadError(l.Path, fmt.Errorf("joint %q: parent %q not defined before it", j.Name, j.Parent))
			}
			parent = p
		}
		axis, err := parseTriple(j.Axis)
		if err != nil {
			return nil, loadError(l.Path, fmt.Errorf("joint %q axis: %v", j.Name, err))
		}
		offset, err := parseTriple(j.Offset)
		if err != nil {
			return nil, loadError(l.Path, fmt.Errorf("joint %q offset: %v", j.Name, err))
		}
		com, err := parseTriple(j.Body.CoM)
		if err != nil {
			return nil, loadError(l.Path, fmt.Errorf("joint %q com: %v", j.Name, err))
		}
		in := j.Body.Inertia
		desc.Joints = append(desc.Joints, model.Joint{
			Name:    j.Name,
			Parent:  parent,
			Axis:    axis,
			Offset:  offset,
			Mass:    j.Body.Mass,
			CoM:     com,
			Inertia: [6]float64{in.Ixx, in.Iyy, in.Izz, in.Ixy, in.Ixz, in.Iyz},
		})
		index[j.Name] = i
	}
	for _, p := range file.Robot.Points {
		desc.Reference[p.Name] = p.Joint
	}

	if err := desc.Validate(); err != nil {
		return nil, loadError(l.Path, err)
	}

	dyn := model.NewDynamics(name, desc)
	applyDefaultProperties(dyn)
	return dyn, nil
}

// parseTriple reads a whitespace-separated 3-vector attribute. An empty
// attribute reads as zero.
func parseTriple(s string) ([3]float64, error) {
	var out [3]float64
	if strings.TrimSpace(s) == "" {
		return out, nil
	}
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return out, fmt.Errorf("expected 3 components, got %d", len(fields))
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

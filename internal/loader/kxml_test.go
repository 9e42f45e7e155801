package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/robolab-io/sotg/internal/model"
)

const armKXML = `<kxml version="1.0">
  <robot name="arm">
    <joint name="shoulder" axis="0 0 1" offset="0 0 1">
      <body mass="2" com="0.5 0 0">
        <inertia ixx="0.1" iyy="0.1" izz="0.1" ixy="0" ixz="0" iyz="0"/>
      </body>
      <mesh file="shoulder.mesh"/>
    </joint>
    <joint name="elbow" parent="shoulder" axis="0 0 1" offset="1 0 0">
      <body mass="1" com="0.5 0 0">
        <inertia ixx="0.05" iyy="0.05" izz="0.05" ixy="0" ixz="0" iyz="0"/>
      </body>
    </joint>
    <point name="left-wrist" joint="elbow"/>
  </robot>
</kxml>`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestKXMLLoad(t *testing.T) {
	path := writeFile(t, t.TempDir(), "arm.kxml", armKXML)

	dyn, err := NewKXML(path).Load("r.dynamics")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if dyn.Dimension() != model.FreeFlyerDim+2 {
		t.Errorf("expected dimension %d, got %d", model.FreeFlyerDim+2, dyn.Dimension())
	}
	if dyn.Description().Reference["left-wrist"] != "elbow" {
		t.Error("reference point not parsed")
	}
	if dyn.Description().Joints[1].Parent != 0 {
		t.Error("parent chain not resolved")
	}
}

func TestKXMLLoad_FlagProfile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "arm.kxml", armKXML)
	dyn, err := NewKXML(path).Load("r.dynamics")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	want := map[string]string{
		model.PropComputeVelocity:         "true",
		model.PropComputeCoM:              "true",
		model.PropComputeAccelerationCoM:  "false",
		model.PropComputeMomentum:         "false",
		model.PropComputeZMP:              "true",
		model.PropComputeBackwardDynamics: "false",
	}
	for key, expected := range want {
		got, err := dyn.Property(key)
		if err != nil {
			t.Fatalf("property %s: %v", key, err)
		}
		if got != expected {
			t.Errorf("property %s: expected %s, got %s", key, expected, got)
		}
	}
}

func TestKXMLLoad_MissingInertia(t *testing.T) {
	content := `<kxml><robot name="arm">
  <joint name="shoulder" axis="0 0 1"><body mass="2" com="0 0 0"/></joint>
</robot></kxml>`
	path := writeFile(t, t.TempDir(), "bad.kxml", content)

	_, err := NewKXML(path).Load("r.dynamics")
	if !errors.Is(err, ErrModelLoad) {
		t.Errorf("expected ErrModelLoad for missing inertia, got %v", err)
	}
}

func TestKXMLLoad_UndefinedParent(t *testing.T) {
	content := `<kxml><robot name="arm">
  <joint name="elbow" parent="shoulder" axis="0 0 1">
    <body mass="1" com="0 0 0"><inertia ixx="1" iyy="1" izz="1" ixy="0" ixz="0" iyz="0"/></body>
  </joint>
</robot></kxml>`
	path := writeFile(t, t.TempDir(), "bad.kxml", content)

	_, err := NewKXML(path).Load("r.dynamics")
	if !errors.Is(err, ErrModelLoad) {
		t.Errorf("expected ErrModelLoad for undefined parent, got %v", err)
	}
}

func TestKXMLLoad_Malformed(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.kxml", "<kxml><robot")
	if _, err := NewKXML(path).Load("r"); !errors.Is(err, ErrModelLoad) {
		t.Errorf("expected ErrModelLoad, got %v", err)
	}
}

func TestKXMLLoad_MissingFile(t *testing.T) {
	_, err := NewKXML(filepath.Join(t.TempDir(), "nope.kxml")).Load("r")
	if !errors.Is(err, ErrModelLoad) {
		t.Errorf("expected ErrModelLoad, got %v", err)
	}
	var le *LoadError
	if !errors.As(err, &le) {
		t.Error("expected *LoadError with path context")
	}
}

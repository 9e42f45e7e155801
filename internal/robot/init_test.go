package robot_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/robolab-io/sotg/internal/graph"
	"github.com/robolab-io/sotg/internal/loader"
	"github.com/robolab-io/sotg/internal/model"
	"github.com/robolab-io/sotg/internal/robot"
)

var (
	axisX = [3]float64{1, 0, 0}
	axisY = [3]float64{0, 1, 0}
	axisZ = [3]float64{0, 0, 1}
)

// humanoidDescription is a minimal body with all four operational points:
// a chest, two arms ending in wrists, two legs ending in ankles.
func humanoidDescription() *model.Description {
	return &model.Description{
		Name: "testbot",
		Joints: []model.Joint{
			{Name: "chest", Parent: -1, Axis: axisZ, Offset: [3]float64{0, 0, 0.6}, Mass: 10, CoM: [3]float64{0, 0, 0.1}},
			{Name: "l-shoulder", Parent: 0, Axis: axisY, Offset: [3]float64{0, 0.25, 0.4}, Mass: 2, CoM: [3]float64{0, 0.1, 0}},
			{Name: "l-wrist", Parent: 1, Axis: axisX, Offset: [3]float64{0, 0.3, 0}, Mass: 0.5},
			{Name: "r-shoulder", Parent: 0, Axis: axisY, Offset: [3]float64{0, -0.25, 0.4}, Mass: 2, CoM: [3]float64{0, -0.1, 0}},
			{Name: "r-wrist", Parent: 3, Axis: axisX, Offset: [3]float64{0, -0.3, 0}, Mass: 0.5},
			{Name: "l-hip", Parent: -1, Axis: axisY, Offset: [3]float64{0, 0.1, 0}, Mass: 4, CoM: [3]float64{0, 0, -0.2}},
			{Name: "l-ankle", Parent: 5, Axis: axisY, Offset: [3]float64{0, 0, -0.5}, Mass: 1},
			{Name: "r-hip", Parent: -1, Axis: axisY, Offset: [3]float64{0, -0.1, 0}, Mass: 4, CoM: [3]float64{0, 0, -0.2}},
			{Name: "r-ankle", Parent: 7, Axis: axisY, Offset: [3]float64{0, 0, -0.5}, Mass: 1},
		},
		Reference: map[string]string{
			"left-wrist":  "l-wrist",
			"right-wrist": "r-wrist",
			"left-ankle":  "l-ankle",
			"right-ankle": "r-ankle",
		},
	}
}

func loadedModel(name string) *model.Dynamics {
	desc := humanoidDescription()
	Expect(desc.Validate()).To(Succeed())
	dyn := model.NewDynamics(name, desc)
	Expect(dyn.SetProperty(model.PropComputeVelocity, "true")).To(Succeed())
	Expect(dyn.SetProperty(model.PropComputeCoM, "true")).To(Succeed())
	Expect(dyn.SetProperty(model.PropComputeZMP, "true")).To(Succeed())
	return dyn
}

var _ = Describe("Robot initialization", func() {
	var r *robot.Robot

	BeforeEach(func() {
		r = robot.New("r")
		r.SetModel(loadedModel("r.dynamics"))
		Expect(r.Init()).To(Succeed())
	})

	It("reaches the Initialized state", func() {
		Expect(r.State()).To(Equal(robot.Initialized))
	})

	It("sizes every state vector to the model dimension", func() {
		dim := r.Dimension()
		Expect(r.HalfSitting()).To(HaveLen(dim))
		Expect(r.Dynamic().Position().Value()).To(HaveLen(dim))
		Expect(r.Dynamic().Velocity().Value()).To(HaveLen(dim))
		Expect(r.Dynamic().Acceleration().Value()).To(HaveLen(dim))
	})

	It("starts at rest in the half-sitting posture", func() {
		Expect(r.Dynamic().Position().Value().Sub(r.HalfSitting()).IsZero()).To(BeTrue())
		Expect(r.Dynamic().Velocity().Value().IsZero()).To(BeTrue())
		Expect(r.Dynamic().Acceleration().Value().IsZero()).To(BeTrue())
		Expect(r.Device().State().Value()).To(HaveLen(r.Dimension()))
	})

	It("builds a feature and a task per operational point", func() {
		for _, op := range robot.OperationalPoints {
			f, ok := r.Feature(op)
			Expect(ok).To(BeTrue(), "feature %s", op)
			Expect(f).NotTo(BeNil())

			t, ok := r.Task(op)
			Expect(ok).To(BeTrue(), "task %s", op)
			Expect(t.ControlGain()).To(Equal(robot.OpPointTaskGain))
			Expect(t.FeatureNames()).To(ConsistOf("r.feature." + op))
		}
	})

	It("exposes each feature under its camelCase member name", func() {
		for _, op := range robot.OperationalPoints {
			f, _ := r.Feature(op)
			member, ok := r.FeatureByMember(robot.MemberName(op))
			Expect(ok).To(BeTrue())
			Expect(member).To(BeIdenticalTo(f))
		}
		lw, _ := r.Feature("left-wrist")
		Expect(r.LeftWrist()).To(BeIdenticalTo(lw))
		ra, _ := r.Feature("right-ankle")
		Expect(r.RightAnkle()).To(BeIdenticalTo(ra))
	})

	It("wires the CoM task with gain 1 and a mask excluding the first axis", func() {
		Expect(r.ComTask().ControlGain()).To(Equal(robot.ComTaskGain))

		mask := r.FeatureCom().Selection()
		Expect(mask).To(HaveLen(3))
		Expect(mask[0]).To(BeFalse())
		Expect(mask.Count()).To(Equal(2))
	})

	It("starts every task at zero error", func() {
		e, err := r.ComTask().Error(1)
		Expect(err).NotTo(HaveOccurred())
		Expect(e.Norm()).To(BeNumerically("<", 1e-12))

		for _, op := range robot.OperationalPoints {
			t, _ := r.Task(op)
			e, err := t.Error(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Norm()).To(BeNumerically("<", 1e-12), op)
		}
	})

	It("rejects a second initialization", func() {
		Expect(r.Init()).To(MatchError(robot.ErrAlreadyInitialized))
		Expect(r.Tasks()).To(HaveLen(len(robot.OperationalPoints) + 1))
	})
})

var _ = Describe("Robot preconditions", func() {
	It("refuses to initialize without a model", func() {
		r := robot.New("r")
		Expect(r.Init()).To(MatchError(robot.ErrNotInitialized))
		Expect(r.State()).To(Equal(robot.Unconfigured))
	})

	It("rejects a half-sitting vector of the wrong length", func() {
		r := robot.New("r")
		r.SetModel(loadedModel("r.dynamics"))
		Expect(r.SetHalfSitting(graph.Vector{1, 2})).To(MatchError(model.ErrDimensionMismatch))
	})
})

var _ = Describe("HumanoidRobot", func() {
	// chainKXML generates a serial-chain descriptor with the requested
	// number of joints and the four operational points at its far end.
	chainKXML := func(joints int) string {
		var b strings.Builder
		b.WriteString("<kxml><robot name=\"r2\">\n")
		for i := 0; i < joints; i++ {
			parent := ""
			if i > 0 {
				parent = fmt.Sprintf(" parent=\"j%d\"", i-1)
			}
			fmt.Fprintf(&b, `<joint name="j%d"%s axis="0 0 1" offset="0.1 0 0">
<body mass="1" com="0.05 0 0"><inertia ixx="0.01" iyy="0.01" izz="0.01" ixy="0" ixz="0" iyz="0"/></body>
</joint>
`, i, parent)
		}
		for i, op := range robot.OperationalPoints {
			fmt.Fprintf(&b, "<point name=%q joint=\"j%d\"/>\n", op, joints-1-i)
		}
		b.WriteString("</robot></kxml>")
		return b.String()
	}

	It("builds a dimension-36 robot from a 30-joint mesh descriptor", func() {
		path := filepath.Join(GinkgoT().TempDir(), "r2.kxml")
		Expect(os.WriteFile(path, []byte(chainKXML(30)), 0644)).To(Succeed())

		r, err := robot.NewHumanoid("r2", loader.NewKXML(path))
		Expect(err).NotTo(HaveOccurred())

		Expect(r.Dimension()).To(Equal(36))
		Expect(r.HalfSitting()).To(Equal(graph.Zero(36)))
		Expect(r.Dynamic().Position().Value()).To(Equal(graph.Zero(36)))

		t, ok := r.Task("left-wrist")
		Expect(ok).To(BeTrue())
		Expect(t.ControlGain()).To(Equal(0.2))
	})

	It("aborts construction when the descriptor cannot be loaded", func() {
		_, err := robot.NewHumanoid("r2", loader.NewKXML(filepath.Join(GinkgoT().TempDir(), "missing.kxml")))
		Expect(err).To(MatchError(loader.ErrModelLoad))
	})
})

package networks

import (
	"errors"
	"testing"
)

// rigTreatmentHead forces the treatment head to always predict the
// given class by zeroing its output weights and biasing the class.
func rigTreatmentHead(t *testing.T, net QNetwork, class int) {
	t.Helper()
	w := net.Weights()
	w["treatment.fc2.w"].Zero()
	w["treatment.fc2.b"].Zero()
	w["treatment.fc2.b"].Set(class, 0, 1)
}

func TestSubstitutionOverrideTraining(t *testing.T) {
	net, err := NewSubstitutionQNetwork(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	s := testSample(4)
	s.Treatments = []int{0, 0, 0, 1}
	s.PrevAction = 0

	out, err := net.Forward(s, Training)
	if err != nil {
		t.Fatal(err)
	}
	if out.ActionValues[0] != 1 || out.ActionValues[1] != 0 {
		t.Errorf("expected [1 0], got %v", out.ActionValues)
	}
}

func TestSubstitutionNoOverrideTraining(t *testing.T) {
	net, err := NewSubstitutionQNetwork(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	// zero value-head output weights so the head output equals its bias
	w := net.Weights()
	w["value.fc2.w"].Zero()
	w["value.fc2.b"].Set(0, 0, 0.3)
	w["value.fc2.b"].Set(1, 0, 0.7)

	s := testSample(4)
	s.Treatments = []int{1, 1, 1, 0} // latest treatment inactive

	out, err := net.Forward(s, Training)
	if err != nil {
		t.Fatal(err)
	}
	if out.ActionValues[0] != 0.3 || out.ActionValues[1] != 0.7 {
		t.Errorf("expected [0.3 0.7], got %v", out.ActionValues)
	}
}

func TestSubstitutionOverrideEvaluation(t *testing.T) {
	net, err := NewSubstitutionQNetwork(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	rigTreatmentHead(t, net, 1)

	s := testSample(4)
	s.Treatments = nil
	s.PrevAction = 1

	out, err := net.Forward(s, Evaluation)
	if err != nil {
		t.Fatal(err)
	}
	if argmax(out.TreatmentLogits) != 1 {
		t.Fatalf("rigged head predicted %d, expected 1", argmax(out.TreatmentLogits))
	}
	if out.ActionValues[0] != 0 || out.ActionValues[1] != 1 {
		t.Errorf("expected [0 1], got %v", out.ActionValues)
	}
}

func TestSubstitutionNoOverrideEvaluation(t *testing.T) {
	net, err := NewSubstitutionQNetwork(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	rigTreatmentHead(t, net, 0)
	w := net.Weights()
	w["value.fc2.w"].Zero()
	w["value.fc2.b"].Set(0, 0, -0.5)
	w["value.fc2.b"].Set(1, 0, 0.5)

	s := testSample(4)
	s.Treatments = nil

	out, err := net.Forward(s, Evaluation)
	if err != nil {
		t.Fatal(err)
	}
	if out.ActionValues[0] != -0.5 || out.ActionValues[1] != 0.5 {
		t.Errorf("expected [-0.5 0.5], got %v", out.ActionValues)
	}
}

func TestSubstitutionPrevActionRange(t *testing.T) {
	net, err := NewSubstitutionQNetwork(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	s := testSample(4)
	s.PrevAction = 5
	if _, err := net.Forward(s, Evaluation); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
}

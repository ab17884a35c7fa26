package output

import (
	"errors"
	"testing"

	"github.com/tkjaer/regping/internal/shared"
)

// mockOutput is a mock implementation of Output for testing
type mockOutput struct {
	writeCalls []map[string]shared.Summary
	closeCalls int
	writeErr   error
	closeErr   error
}

func (m *mockOutput) WriteSummaries(summaries map[string]shared.Summary) error {
	m.writeCalls = append(m.writeCalls, summaries)
	return m.writeErr
}

func (m *mockOutput) Close() error {
	m.closeCalls++
	return m.closeErr
}

func TestOutputManager_Register(t *testing.T) {
	om := &OutputManager{}
	mock1 := &mockOutput{}
	mock2 := &mockOutput{}

	om.Register(mock1)
	if len(om.outputs) != 1 {
		t.Errorf("Register() outputs count = %d, want 1", len(om.outputs))
	}

	om.Register(mock2)
	if len(om.outputs) != 2 {
		t.Errorf("Register() outputs count = %d, want 2", len(om.outputs))
	}
}

func TestOutputManager_WriteSummaries(t *testing.T) {
	om := &OutputManager{}
	mock1 := &mockOutput{}
	mock2 := &mockOutput{}
	om.Register(mock1)
	om.Register(mock2)

	summaries := map[string]shared.Summary{"eu-north-1": {Count: 4, Errors: 1}}
	if err := om.WriteSummaries(summaries); err != nil {
		t.Fatalf("WriteSummaries() error = %v", err)
	}

	for i, mock := range []*mockOutput{mock1, mock2} {
		if len(mock.writeCalls) != 1 {
			t.Fatalf("mock%d WriteSummaries calls = %d, want 1", i+1, len(mock.writeCalls))
		}
		if mock.writeCalls[0]["eu-north-1"].Count != 4 {
			t.Errorf("mock%d count = %d, want 4", i+1, mock.writeCalls[0]["eu-north-1"].Count)
		}
	}
}

func TestOutputManager_WriteSummaries_Error(t *testing.T) {
	om := &OutputManager{}
	failing := &mockOutput{writeErr: errors.New("disk full")}
	healthy := &mockOutput{}
	om.Register(failing)
	om.Register(healthy)

	err := om.WriteSummaries(map[string]shared.Summary{})
	if err == nil || err.Error() != "disk full" {
		t.Errorf("WriteSummaries() error = %v, want disk full", err)
	}
	if len(healthy.writeCalls) != 1 {
		t.Error("outputs after a failing one should still be written")
	}
}

func TestOutputManager_Close(t *testing.T) {
	om := &OutputManager{}
	mock1 := &mockOutput{closeErr: errors.New("close failed")}
	mock2 := &mockOutput{}
	om.Register(mock1)
	om.Register(mock2)

	if err := om.Close(); err == nil {
		t.Error("Close() error = nil, want close failed")
	}

	if mock1.closeCalls != 1 {
		t.Errorf("mock1 Close calls = %d, want 1", mock1.closeCalls)
	}
	if mock2.closeCalls != 1 {
		t.Errorf("mock2 Close calls = %d, want 1", mock2.closeCalls)
	}
}

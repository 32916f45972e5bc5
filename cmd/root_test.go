package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/pgrxgen/pgrxgen"
)

func TestExitCodeMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"plain error", errors.New("bad flag"), 1},
		{"collect stage", &pgrxgen.StageError{Stage: pgrxgen.StageCollect, Err: errors.New("x")}, 2},
		{"graph stage", &pgrxgen.StageError{Stage: pgrxgen.StageGraph, Err: errors.New("x")}, 3},
		{"order stage", &pgrxgen.StageError{Stage: pgrxgen.StageOrder, Err: errors.New("x")}, 4},
		{"emit stage", &pgrxgen.StageError{Stage: pgrxgen.StageEmit, Err: errors.New("x")}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	want := map[string]bool{"generate": false, "validate": false, "version": false}
	for _, cmd := range RootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %s not registered", name)
		}
	}
}

func TestGenerateRequiresFlags(t *testing.T) {
	var buf bytes.Buffer
	RootCmd.SetOut(&buf)
	RootCmd.SetErr(&buf)
	RootCmd.SetArgs([]string{"generate"})

	err := RootCmd.Execute()
	if err == nil {
		t.Fatal("generate without flags should fail")
	}
	if !strings.Contains(err.Error(), "required flag") {
		t.Errorf("unexpected error: %v", err)
	}
}

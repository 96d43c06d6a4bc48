package main

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureOutput(f func()) string {
	var buf bytes.Buffer
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	done := make(chan bool)
	go func() {
		_, _ = io.Copy(&buf, r)
		done <- true
	}()

	f()
	_ = w.Close()
	os.Stdout = oldStdout
	<-done

	return buf.String()
}

func TestMainCommands(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	tests := []struct {
		name           string
		args           []string
		expectedOutput string
	}{
		{
			name:           "version command",
			args:           []string{"blogsite", "version"},
			expectedOutput: "blogsite dev",
		},
		{
			name:           "help command",
			args:           []string{"blogsite", "help"},
			expectedOutput: "Usage:\n  blogsite [command]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			output := captureOutput(main)
			assert.Contains(t, output, tt.expectedOutput)
		})
	}
}

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

func callMain() (int, string) {
	exitCode := 0
	oldExit := exit
	defer func() { exit = oldExit }()
	exit = func(code int) {
		exitCode = code
		panic("exit")
	}

	output := captureOutput(func() {
		defer func() {
			if r := recover(); r != nil && r != "exit" {
				panic(r)
			}
		}()
		RealMain()
	})

	return exitCode, output
}

func TestMain(t *testing.T) {
	// Save original args
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	tests := []struct {
		name           string
		args           []string
		expectedExit   int
		expectedOutput string
	}{
		{
			name:           "no arguments",
			args:           []string{"socialnet"},
			expectedExit:   1,
			expectedOutput: "Usage: socialnet <command>",
		},
		{
			name:           "help command",
			args:           []string{"socialnet", "help"},
			expectedExit:   0,
			expectedOutput: "Usage: socialnet <command> [options]",
		},
		{
			name:           "version command",
			args:           []string{"socialnet", "version"},
			expectedExit:   0,
			expectedOutput: "socialnet version " + CliVersion,
		},
		{
			name:           "unknown command",
			args:           []string{"socialnet", "unknown"},
			expectedExit:   1,
			expectedOutput: "Unknown command: unknown",
		},
		{
			name:           "db help",
			args:           []string{"socialnet", "db", "help"},
			expectedExit:   0,
			expectedOutput: "Usage: socialnet db <command>",
		},
		{
			name:           "db without subcommand",
			args:           []string{"socialnet", "db"},
			expectedExit:   1,
			expectedOutput: "Usage: socialnet db <command>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			exitCode, output := callMain()

			assert.Contains(t, output, tt.expectedOutput)
			assert.Equal(t, tt.expectedExit, exitCode)
		})
	}
}

func TestPrintHelp(t *testing.T) {
	output := captureOutput(func() {
		printHelp()
	})

	assert.Contains(t, output, "Usage: socialnet")
	assert.Contains(t, output, "help")
	assert.Contains(t, output, "version")
	assert.Contains(t, output, "serve")
	assert.Contains(t, output, "db <command>")
	assert.Contains(t, output, "backup")
	assert.Contains(t, output, "restore")
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// outputError writes an error message to stderr and returns the exit code.
func outputError(code int, format string, args ...interface{}) int {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	return code
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// writeXML sends XML to path, or to stdout when path is empty.
// Returns a status response for the file case.
func writeXML(xml, path string) (*WriteResponse, error) {
	if !strings.HasSuffix(xml, "\n") {
		xml += "\n"
	}
	if path == "" {
		_, err := fmt.Print(xml)
		return nil, err
	}
	if err := os.WriteFile(path, []byte(xml), 0644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}
	return &WriteResponse{Status: "written", Path: path, Bytes: len(xml)}, nil
}

// reportWrite prints the status of a file write, if there was one.
func reportWrite(resp *WriteResponse) {
	if resp == nil {
		return
	}
	if humanOutput {
		outputHuman("Wrote %d bytes to %s\n", resp.Bytes, resp.Path)
		return
	}
	outputJSON(resp)
}

// WriteResponse reports XML written to a file.
type WriteResponse struct {
	Status string `json:"status"`
	Path   string `json:"path"`
	Bytes  int    `json:"bytes"`
	Works  int    `json:"works,omitempty"`
}

// ValidateResponse is the response for the validate command.
type ValidateResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

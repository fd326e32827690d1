package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	data := map[string]int{"rows_written": 1}
	err := formatter.Success(data)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error(ErrCodeLoad, "failed to load data", nil)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E003", resp.Error.Code)
	assert.Equal(t, "failed to load data", resp.Error.Message)
}

func TestOutputFormatter_TextSuccessWritesNothing(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Success(map[string]int{"rows_written": 1})
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Error(ErrCodeStorage, "failed to save data", nil)
	require.NoError(t, err)
	assert.Equal(t, "Error [E005]: failed to save data\n", buf.String())
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	err := formatter.Error(ErrCodeGeneric, "run failed", map[string]string{"stage": "save"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [E001]")
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_ProgressWriter(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	text := &OutputFormatter{Format: "text", Writer: out, ErrWriter: errOut}
	assert.Same(t, out, text.ProgressWriter())

	js := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut}
	assert.Same(t, errOut, js.ProgressWriter())

	noErr := &OutputFormatter{Format: "json", Writer: out}
	assert.Same(t, out, noErr.ProgressWriter())
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitStorage, GetExitCode(NewExitError(ExitStorage, "x")))

	wrapped := fmt.Errorf("outer: %w", WrapExitError(ExitLoad, "load", errors.New("inner")))
	assert.Equal(t, ExitLoad, GetExitCode(wrapped))
}

func TestExitError_Message(t *testing.T) {
	assert.Equal(t, "usage", NewExitError(ExitUsage, "usage").Error())

	inner := errors.New("disk full")
	err := WrapExitError(ExitStorage, "failed to save data", inner)
	assert.Equal(t, "failed to save data: disk full", err.Error())
	assert.ErrorIs(t, err, inner)
}

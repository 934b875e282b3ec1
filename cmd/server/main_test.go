package main

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	o, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", o.addr)
	assert.Equal(t, "info", o.logLevel)
	assert.Zero(t, o.threshold)

	o, err = parseFlags([]string{"-c", "cal.yaml", "--addr", ":9000", "--threshold", "1.2", "--log-level", "debug"})
	require.NoError(t, err)
	assert.Equal(t, options{addr: ":9000", config: "cal.yaml", threshold: 1.2, logLevel: "debug"}, o)
}

func TestParseFlagsErrors(t *testing.T) {
	_, err := parseFlags([]string{"--nope"})
	assert.Error(t, err)
	_, err = parseFlags([]string{"extra"})
	assert.Error(t, err)
	_, err = parseFlags([]string{"--threshold", "-1"})
	assert.Error(t, err)
	_, err = parseFlags([]string{"--help"})
	assert.ErrorIs(t, err, pflag.ErrHelp)
}

func TestRunRejectsBadLevel(t *testing.T) {
	err := run(options{addr: "127.0.0.1:0", logLevel: "loud"})
	assert.Error(t, err)
}

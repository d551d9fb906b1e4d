package main

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/portpool/pool"
	"github.com/joshuapare/portpool/pool/segment"
)

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	printVersion(&buf)

	assertContains(t, buf.String(), []string{
		"poolctl " + version,
		fmt.Sprintf("segment layout: %d", segment.Version),
		fmt.Sprintf("pool layout: %d", pool.DataVersion),
	})
	require.Contains(t, buf.String(), `magic "IOXSHM\x00\x00"`)
}

package qrcode

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	goqrcode "github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPNGGenerator_Generate(t *testing.T) {
	g := NewPNGGenerator(0)
	assert.Equal(t, DefaultSize, g.size)

	out, err := g.Generate("AB12CD")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, dataURLPrefix))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(out, dataURLPrefix))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("\x89PNG")))
}

func TestPNGGenerator_EmptyContent(t *testing.T) {
	_, err := NewPNGGenerator(128).Generate("")
	assert.Error(t, err)
}

func TestPNGGenerator_EncodeError(t *testing.T) {
	orig := encodePNG
	t.Cleanup(func() { encodePNG = orig })
	encodePNG = func(string, goqrcode.RecoveryLevel, int) ([]byte, error) {
		return nil, errors.New("boom")
	}

	_, err := NewPNGGenerator(128).Generate("AB12CD")
	assert.ErrorContains(t, err, "boom")
}

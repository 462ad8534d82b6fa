// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yomitube/pkg/uuid"
)

func TestNew_IsVersion7AndSortable(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	assert.True(t, uuid.Valid(first))
	assert.Equal(t, byte('7'), first[14], "version nibble")
	assert.NotEqual(t, first, second)
	assert.False(t, uuid.Valid("not-a-uuid"))
}

func TestValid_CanonicalOnly(t *testing.T) {
	tests := map[string]bool{
		"0190f7a2-7c1e-7d3a-9b55-2f8e6c0d4a11":          true,
		"0190F7A2-7C1E-7D3A-9B55-2F8E6C0D4A11":          true,
		"{0190f7a2-7c1e-7d3a-9b55-2f8e6c0d4a11}":        false,
		"urn:uuid:0190f7a2-7c1e-7d3a-9b55-2f8e6c0d4a11": false,
		"0190f7a27c1e7d3a9b552f8e6c0d4a11":              false,
		"":                                              false,
	}

	for input, expected := range tests {
		assert.Equal(t, expected, uuid.Valid(input), input)
	}
}

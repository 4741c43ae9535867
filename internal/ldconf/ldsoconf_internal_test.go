// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package ldconf

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIncludePattern(t *testing.T) {
	tests := []struct {
		line      string
		pattern   string
		isInclude bool
	}{
		{"include /etc/ld.so.conf.d/*.conf", "/etc/ld.so.conf.d/*.conf", true},
		{"include\tfoo/*.conf ", "foo/*.conf", true},
		{"includedir/lib", "", false},
		{"include", "", false},
		{"/usr/include/lib", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			pattern, isInclude := includePattern(tt.line)
			assert.Equal(t, tt.isInclude, isInclude)
			assert.Equal(t, tt.pattern, pattern)
		})
	}
}

func TestLines(t *testing.T) {
	content := []byte("# header\n\n/usr/lib # libs\n  /opt/lib\nhwcap 1 x\r\n/lib\r\n")

	actual := slices.Collect(lines(content))
	assert.Equal(t, []string{"/usr/lib", "/opt/lib", "/lib"}, actual)
}

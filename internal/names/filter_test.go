package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterAccept(t *testing.T) {
	t.Parallel()

	f := NewFilter(nil, nil)
	testCases := []struct {
		name      string
		candidate string
		want      bool
	}{
		{"court suffix", "東京地方裁判所", true},
		{"branch suffix", "東京地方裁判所立川支部", true},
		{"sub-office not accepted by default", "甲簡易裁判所乙出張所", false},
		{"premises marker rejected", "裁判所内の案内", false},
		{"premises marker with suffix rejected", "東京地方裁判所内の各部署・東京地方裁判所", false},
		{"path separator rejected", "/courthouse/tokyo/裁判所", false},
		{"unrelated link text", "トップページ", false},
		{"empty", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, f.Accept(tc.candidate))
		})
	}
}

func TestFilterCustomSuffixes(t *testing.T) {
	t.Parallel()

	f := NewFilter([]string{Terminator, SuffixBranch, SuffixSubOffice, " "}, nil)
	assert.True(t, f.Accept("甲簡易裁判所乙出張所"))
	assert.Equal(t, []string{Terminator, SuffixBranch, SuffixSubOffice}, f.Suffixes())
	assert.False(t, f.Accept("甲地方裁判所内"))
}

func TestNewFilterDefaults(t *testing.T) {
	t.Parallel()

	f := NewFilter([]string{"  "}, []string{})
	assert.Equal(t, DefaultSuffixes, f.Suffixes())
	assert.False(t, f.Accept("裁判所内の案内"))
}

package version

import (
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildNumber(t *testing.T) {
	tests := []struct {
		date    string
		want    int
		wantErr bool
	}{
		{date: "2026-03-01", want: 0},
		{date: "2026-03-02", want: 1},
		{date: "2027-03-01", want: 365},
		{date: "2032-03-01", want: 2192}, // 2028 високосный
		{date: "2026-02-28", wantErr: true},
		{date: "01.03.2026", wantErr: true},
		{date: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := buildNumber(tt.date)
		if tt.wantErr {
			assert.Error(t, err, tt.date)
			continue
		}
		require.NoError(t, err, tt.date)
		assert.Equal(t, tt.want, got, tt.date)
	}
}

func TestFromVCS_LdflagsWin(t *testing.T) {
	settings := []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef"},
		{Key: "vcs.time", Value: "2026-04-02T10:11:12Z"},
		{Key: "vcs.modified", Value: "true"},
	}

	info := Info{}
	fromVCS(&info, settings)
	assert.Equal(t, "0123456789abcdef", info.Commit)
	assert.Equal(t, "2026-04-02", info.Date)
	assert.True(t, info.Modified)

	info = Info{Commit: "release", Date: "2026-03-11"}
	fromVCS(&info, settings)
	assert.Equal(t, "release", info.Commit)
	assert.Equal(t, "2026-03-11", info.Date)
}

func TestString(t *testing.T) {
	oldDate, oldCommit := Date, Commit
	defer func() { Date, Commit = oldDate, oldCommit }()

	Date, Commit = "2026-03-11", "feedfacecafebeef00"
	s := String()
	assert.True(t, strings.HasPrefix(s, "token-strike build 10 (2026-03-11) commit[feedfacecafe"), s)
	assert.Contains(t, s, "ci[local]")

	Date = "garbage"
	assert.Contains(t, String(), "dev build")
}

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

// Заполняются при сборке:
// -ldflags "-X github.com/DivyanshGoel20/token-strike/internal/version.Date=2026-03-11"
var (
	Date   string // YYYY-MM-DD, UTC
	Commit string
	Branch string
	CI     string
)

// Номер сборки - число дней от первого релиза сервера
var epoch = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

// Info - то, что отдаёт /version и пишется в лог при старте
type Info struct {
	BuildID  int    `json:"buildId"`
	Date     string `json:"date,omitempty"`
	Commit   string `json:"commit"`
	Branch   string `json:"branch,omitempty"`
	CI       string `json:"ci"`
	Go       string `json:"go"`
	Modified bool   `json:"modified,omitempty"`
	Problem  string `json:"problem,omitempty"`
}

func buildNumber(date string) (int, error) {
	if date == "" {
		return 0, fmt.Errorf("build date not set")
	}
	day, err := time.ParseInLocation(time.DateOnly, date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("build date %q: %w", date, err)
	}
	if day.Before(epoch) {
		return 0, fmt.Errorf("build date %s precedes %s", date, epoch.Format(time.DateOnly))
	}
	return int(day.Sub(epoch) / (24 * time.Hour)), nil
}

// Current собирает сведения о сборке. Без ldflags коммит берётся из
// VCS-меток, которые go build вшивает сам.
func Current() Info {
	info := Info{
		Date:   Date,
		Commit: Commit,
		Branch: Branch,
		CI:     CI,
		Go:     runtime.Version(),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fromVCS(&info, bi.Settings)
	}
	if info.CI == "" {
		info.CI = "local"
	}

	id, err := buildNumber(info.Date)
	if err != nil {
		info.Problem = err.Error()
		return info
	}
	info.BuildID = id
	return info
}

func fromVCS(info *Info, settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "" && len(s.Value) >= len(time.DateOnly) {
				info.Date = s.Value[:len(time.DateOnly)]
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
}

// String - строка для лога при старте
func String() string {
	info := Current()
	commit := info.Commit
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if commit == "" {
		commit = "unknown"
	}
	if info.Modified {
		commit += "+dirty"
	}

	if info.Problem != "" {
		return fmt.Sprintf("token-strike dev build commit[%s] %s (%s)", commit, info.Go, info.Problem)
	}
	return fmt.Sprintf("token-strike build %d (%s) commit[%s] ci[%s] %s",
		info.BuildID, info.Date, commit, info.CI, info.Go)
}

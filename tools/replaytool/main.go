package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/DivyanshGoel20/token-strike/internal/domain"
	"github.com/DivyanshGoel20/token-strike/internal/infrastructure/storage"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}

	switch os.Args[1] {
	case "info":
		if len(os.Args) < 3 {
			fmt.Println("Usage: replaytool info <file.tsrp>")
			return
		}
		r, ok := load(os.Args[2])
		if !ok {
			return
		}
		fmt.Printf("session:  %s\n", r.SessionID)
		fmt.Printf("recorded: %s\n", time.Unix(r.Timestamp, 0).UTC().Format(time.RFC3339))
		fmt.Printf("seed:     %d\n", r.Seed)
		fmt.Printf("ammo:     %d\n", r.InitialAmmo)
		fmt.Printf("damage:   %g\n", r.BulletDamage)
		fmt.Printf("tick:     %dms\n", r.TickMs)
		fmt.Printf("tags:     %d\n", len(r.Tags))
		fmt.Printf("frames:   %d\n", len(r.Frames))
		if n := len(r.Frames); n > 0 {
			last := r.Frames[n-1].Tick
			fmt.Printf("length:   %s (last input change at tick %d)\n",
				domain.FormatElapsed(last*int64(r.TickMs)), last)
		}
		for _, g := range r.Grants {
			fmt.Printf("grant:    %s after tick %d\n", g.Upgrade, g.Tick)
		}
	case "frames":
		if len(os.Args) < 3 {
			fmt.Println("Usage: replaytool frames <file.tsrp> [limit]")
			return
		}
		r, ok := load(os.Args[2])
		if !ok {
			return
		}
		limit := len(r.Frames)
		if len(os.Args) > 3 {
			n, err := strconv.Atoi(os.Args[3])
			if err != nil || n < 0 {
				fmt.Printf("Invalid limit: %s\n", os.Args[3])
				return
			}
			if n < limit {
				limit = n
			}
		}
		for _, f := range r.Frames[:limit] {
			fmt.Printf("%8d  %+.3f %+.3f\n", f.Tick, f.Input.X, f.Input.Y)
		}
	case "format":
		if len(os.Args) < 3 {
			fmt.Println("Usage: replaytool format <unix_timestamp>")
			return
		}
		ts, err := strconv.ParseInt(os.Args[2], 10, 64)
		if err != nil {
			fmt.Printf("Invalid timestamp: %v\n", err)
			return
		}
		fmt.Println(time.Unix(ts, 0).Format(time.RFC3339))
	default:
		printHelp()
	}
}

func load(path string) (*domain.ReplaySession, bool) {
	r, err := storage.LoadReplay(path)
	if err != nil {
		fmt.Printf("Cannot read replay: %v\n", err)
		return nil, false
	}
	return r, true
}

func printHelp() {
	fmt.Println(`Replay Tool - просмотр файлов реплеев (.tsrp)
Commands:
  info <file>            - заголовок реплея: сид, патроны, число кадров
  frames <file> [limit]  - лента ввода по тикам
  format <timestamp>     - преобразовать Unix время из заголовка в читаемый формат`)
}

package main

import (
	"bufio"
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dimiro1/banner"
	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/harunnryd/nexus/pkg/adapters/recognizer"
	"github.com/harunnryd/nexus/pkg/nexus"
	"github.com/harunnryd/nexus/pkg/redact"
)

const version = "dev"

func printBanner() {
	tpl := "{{ .Title \"NEXUS\" \"\" 0 }}\nVersion: " + version + "\n"
	banner.Init(os.Stdout, true, true, bytes.NewBufferString(tpl))
}

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg := nexus.DefaultConfig()
	if *configPath != "" {
		loaded, err := nexus.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if key := os.Getenv("DEEPGRAM_API_KEY"); key != "" && cfg.Recognizer.Provider == "deepgram" {
		if cfg.Recognizer.Settings == nil {
			cfg.Recognizer.Settings = map[string]any{}
		}
		if _, ok := cfg.Recognizer.Settings["api_key"]; !ok {
			cfg.Recognizer.Settings["api_key"] = key
		}
	}

	printBanner()

	var rec recognizer.Recognizer
	if cfg.Recognizer.Provider == "deepgram" {
		built, err := nexus.BuildRecognizer(cfg.Recognizer)
		if err != nil {
			fmt.Fprintf(os.Stderr, "recognizer error: %v\n", err)
			os.Exit(1)
		}
		rec = built
	}

	session, err := nexus.NewSession(nexus.Options{Config: cfg, Recognizer: rec})
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup error: %v\n", err)
		os.Exit(1)
	}

	render := newRenderer()
	session.Transcript().SetNotify(render.onChange(session.Transcript()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := session.CheckHealth(ctx); err != nil {
		color.Yellow("backend unreachable: %v", err)
	} else {
		color.Green("connected to %s", cfg.Backend.BaseURL)
		if g, err := session.Status().Greeting(ctx); err == nil && g.Greeting != "" {
			color.Cyan("%s", g.Greeting)
		}
	}

	if rec != nil {
		go func() { _ = session.Run(ctx) }()
		color.White("voice input active; speak or type below")
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if handleCommand(ctx, session, line) {
			break
		}
		if ctx.Err() != nil {
			break
		}
		fmt.Print("> ")
	}
}

// handleCommand runs slash commands; returns true when the session should end.
func handleCommand(ctx context.Context, session *nexus.Session, line string) bool {
	switch {
	case line == "":
		return false
	case line == "/quit" || line == "/exit":
		return true
	case line == "/stop":
		session.StopAudio()
	case line == "/status":
		if st, err := session.Status().Gaia(ctx); err == nil {
			color.Cyan("%s — %s %s", st.Weather.Location, st.Weather.Condition, st.Weather.Temperature)
			color.Cyan("%s", st.Time.Formatted)
		} else {
			color.Yellow("status unavailable")
		}
	case line == "/profile":
		if p, err := session.Status().Profile(ctx); err == nil {
			name := p.Name
			if name == "" {
				name = p.UserID
			}
			color.Cyan("profile: %s, %d facts", name, len(p.Facts))
			for _, f := range p.Facts {
				color.Cyan("  - %s", f)
			}
		} else {
			color.Yellow("profile unavailable")
		}
	case strings.HasPrefix(line, "/privacy"):
		arg := strings.TrimSpace(strings.TrimPrefix(line, "/privacy"))
		if arg == redact.ModePublic || arg == redact.ModePrivate {
			if err := session.SetPrivacyMode(arg); err != nil {
				color.Yellow("could not save preference: %v", err)
			}
		} else {
			color.White("privacy mode: %s (use /privacy public|private)", session.PrivacyMode())
		}
	default:
		if err := session.Submit(ctx, line); err != nil {
			color.Yellow("%v", err)
		}
	}
	return false
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater"
	"github.com/go-pkgz/repeater/strategy"
	"github.com/umputun/go-flags"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/umputun/hiretrack/app/hiring"
	"github.com/umputun/hiretrack/app/notify"
	"github.com/umputun/hiretrack/app/seed"
	"github.com/umputun/hiretrack/app/store"
	"github.com/umputun/hiretrack/app/web"
)

type options struct {
	DB         string `long:"db" env:"HIRETRACK_DB" default:"hiretrack.db" description:"sqlite database file"`
	Seed       string `long:"seed" env:"HIRETRACK_SEED" description:"yaml seed file, applied to an empty database"`
	Candidates int    `long:"candidates" env:"HIRETRACK_CANDIDATES" default:"5" description:"candidates generated for a new job"`
	Dbg        bool   `long:"dbg" env:"HIRETRACK_DEBUG" description:"debug mode"`

	Web struct {
		Address  string  `long:"address" env:"ADDRESS" default:":8080" description:"web server listen address"`
		Hostname string  `long:"hostname" env:"HOSTNAME" description:"hostname to display in UI"`
		BaseURL  string  `long:"base-url" env:"BASE_URL" description:"base URL path for reverse proxy (e.g., /hiretrack)"`
		Rate     float64 `long:"rate" env:"RATE" default:"10" description:"max changes per second per client, 0 to disable"`
	} `group:"web" namespace:"web" env-namespace:"HIRETRACK_WEB"`

	Notify struct {
		Webhooks []string      `long:"webhook" env:"WEBHOOK" env-delim:"," description:"webhook url(s) for candidate status changes"`
		Timeout  time.Duration `long:"timeout" env:"TIMEOUT" default:"5s" description:"notification timeout"`
		Template string        `long:"template" env:"TEMPLATE" description:"status message template"`
	} `group:"notify" namespace:"notify" env-namespace:"HIRETRACK_NOTIFY"`

	Open struct {
		Attempts int           `long:"attempts" env:"ATTEMPTS" default:"3" description:"how many times to try opening the database"`
		Duration time.Duration `long:"duration" env:"DURATION" default:"500ms" description:"initial retry duration"`
		Factor   float64       `long:"factor" env:"FACTOR" default:"2" description:"backoff factor"`
	} `group:"open" namespace:"open" env-namespace:"HIRETRACK_OPEN"`

	Log struct {
		Enabled         bool   `long:"enabled" env:"ENABLED" description:"enable logging to file"`
		Filename        string `long:"file" env:"FILE" default:"hiretrack.log" description:"log file name"`
		MaxSize         int    `long:"max-size" env:"MAX_SIZE" default:"100" description:"max log file size in megabytes"`
		MaxAge          int    `long:"max-age" env:"MAX_AGE" default:"0" description:"max days to keep old log files"`
		MaxBackups      int    `long:"max-backups" env:"MAX_BACKUPS" default:"7" description:"max number of old log files"`
		EnabledCompress bool   `long:"compress" env:"COMPRESS" description:"compress rotated log files"`
	} `group:"log" namespace:"log" env-namespace:"HIRETRACK_LOG"`
}

var opts options

var revision = "unknown"

func main() {
	fmt.Printf("hiretrack %s\n", revision)

	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(2)
	}
	setupLogs()

	defer func() {
		if x := recover(); x != nil {
			log.Printf("[WARN] run time panic:\n%v", x)
			panic(x)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	signals(cancel) // handle SIGQUIT and SIGTERM

	if err := run(ctx); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
	log.Printf("[INFO] hiretrack stopped")
}

// run opens the store, applies seed and serves web ui until ctx is canceled
func run(ctx context.Context) error {
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Printf("[WARN] failed to close store: %v", err)
		}
	}()

	jobs := hiring.NewJobs(st)
	questions := hiring.NewQuestions(st, jobs)

	if opts.Seed != "" {
		cfg, err := seed.Load(opts.Seed)
		if err != nil {
			return fmt.Errorf("failed to load seed: %w", err)
		}
		if _, err := seed.Apply(cfg, jobs, questions); err != nil {
			return fmt.Errorf("failed to apply seed: %w", err)
		}
	}

	srv, err := web.New(web.Config{
		Jobs:              jobs,
		Questions:         questions,
		Notifier:          makeNotifier(),
		DefaultCandidates: opts.Candidates,
		BaseURL:           validateBaseURL(opts.Web.BaseURL),
		Hostname:          opts.Web.Hostname,
		Version:           revision,
		Rate:              opts.Web.Rate,
	})
	if err != nil {
		return fmt.Errorf("failed to create web server: %w", err)
	}
	return srv.Run(ctx, opts.Web.Address)
}

// openStore opens sqlite store, retrying with backoff as the file can be locked by another process
func openStore(ctx context.Context) (*store.SQLite, error) {
	rptr := repeater.New(&strategy.Backoff{Repeats: max(opts.Open.Attempts, 1), Duration: opts.Open.Duration,
		Factor: opts.Open.Factor, Jitter: true})

	var st *store.SQLite
	err := rptr.Do(ctx, func() error {
		var e error
		st, e = store.NewSQLite(opts.DB)
		if e != nil {
			log.Printf("[WARN] can't open store %s: %v", opts.DB, e)
		}
		return e
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", opts.DB, err)
	}
	log.Printf("[INFO] store %s opened", opts.DB)
	return st, nil
}

// makeNotifier returns status notifier or nil if no webhooks configured.
// web.Config.Notifier is an interface, so a nil *notify.Service must not get there.
func makeNotifier() web.Notifier {
	svc := notify.NewService(notify.Params{
		Destinations: opts.Notify.Webhooks,
		Timeout:      opts.Notify.Timeout,
		Template:     opts.Notify.Template,
		HostName:     makeHostName(),
	})
	if svc == nil {
		return nil
	}
	log.Printf("[INFO] notifications: %s", svc)
	return svc
}

func makeHostName() string {
	if opts.Web.Hostname != "" {
		return opts.Web.Hostname
	}
	host, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return host
}

// validateBaseURL normalizes base url, "/" and "" mean root
func validateBaseURL(u string) string {
	u = strings.TrimSuffix(strings.TrimSpace(u), "/")
	if u != "" && !strings.HasPrefix(u, "/") {
		u = "/" + u
	}
	return u
}

// setupLogs configures lgr and returns the writer it logs to, stdout or rotated file
func setupLogs() io.Writer {
	var out io.Writer = os.Stdout
	if opts.Log.Enabled {
		out = &lumberjack.Logger{
			Filename:   opts.Log.Filename,
			MaxSize:    opts.Log.MaxSize,
			MaxAge:     opts.Log.MaxAge,
			MaxBackups: opts.Log.MaxBackups,
			Compress:   opts.Log.EnabledCompress,
		}
	}

	if opts.Dbg {
		log.Setup(log.Out(out), log.Err(out), log.Debug, log.Msec, log.CallerFunc, log.CallerPkg, log.CallerFile)
		return out
	}
	log.Setup(log.Out(out), log.Err(out), log.Msec, log.LevelBraces)
	return out
}

func signals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	go func() {
		stacktrace := make([]byte, 8192)
		for sig := range sigChan {
			if sig == syscall.SIGQUIT { // catch SIGQUIT and print stack traces
				length := runtime.Stack(stacktrace, true)
				fmt.Println(string(stacktrace[:length]))
				continue
			}
			log.Printf("[INFO] got %s, shutting down", sig)
			cancel() // terminate on SIGTERM and SIGINT
		}
	}()
	signal.Notify(sigChan, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT)
}

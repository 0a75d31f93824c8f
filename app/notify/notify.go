// Package notify delivers candidate status change messages to webhook destinations
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"text/template"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/notify"

	"github.com/umputun/hiretrack/app/hiring"
	"github.com/umputun/hiretrack/app/hiring/enums"
)

const defaultStatusTemplate = `Candidate {{.Candidate.Name}} ({{.Candidate.Email}}) for job #{{.Job.ID}} "{{.Job.Title}}": ` +
	`{{.Prev}} -> {{.Candidate.Status}}{{if .Host}} [{{.Host}}]{{end}}`

// Params defines notification service parameters
type Params struct {
	Destinations []string      // webhook urls
	Timeout      time.Duration // per-destination send timeout
	Template     string        // optional text/template for status messages
	HostName     string        // optional instance name added to messages
}

// Service sends status change notifications
type Service struct {
	notifiers    []notify.Notifier
	destinations []string
	timeout      time.Duration
	tmpl         *template.Template
	host         string
}

// NewService makes notification service. Returns nil if no destinations defined.
func NewService(p Params) *Service {
	if len(p.Destinations) == 0 {
		return nil
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	tmpl, err := template.New("status").Parse(defaultStatusTemplate)
	if err != nil {
		panic(err) // default template is a constant
	}
	if p.Template != "" {
		custom, err := template.New("status").Parse(p.Template)
		if err != nil {
			log.Printf("[WARN] can't parse notification template, default used: %v", err)
		} else {
			tmpl = custom
		}
	}

	log.Printf("[INFO] status notifications enabled for %d destination(s)", len(p.Destinations))
	return &Service{
		notifiers:    []notify.Notifier{notify.NewWebhook(notify.WebhookParams{Timeout: timeout})},
		destinations: p.Destinations,
		timeout:      timeout,
		tmpl:         tmpl,
		host:         p.HostName,
	}
}

// StatusChanged sends message about candidate status change to all destinations.
// Failed destinations don't stop the rest, all errors are returned together.
func (s *Service) StatusChanged(ctx context.Context, job hiring.Job, c hiring.Candidate, prev enums.Status) error {
	text, err := s.MakeStatusText(job, c, prev)
	if err != nil {
		return err
	}

	var errs []error
	for _, dest := range s.destinations {
		sendCtx, cancel := context.WithTimeout(ctx, s.timeout)
		if err := notify.Send(sendCtx, s.notifiers, dest, text); err != nil {
			errs = append(errs, fmt.Errorf("send to %s: %w", dest, err))
		}
		cancel()
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	log.Printf("[DEBUG] status notification sent to %d destination(s)", len(s.destinations))
	return nil
}

// MakeStatusText renders status change message
func (s *Service) MakeStatusText(job hiring.Job, c hiring.Candidate, prev enums.Status) (string, error) {
	data := struct {
		Job       hiring.Job
		Candidate hiring.Candidate
		Prev      enums.Status
		Host      string
	}{Job: job, Candidate: c, Prev: prev, Host: s.host}

	buf := bytes.Buffer{}
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to apply template: %w", err)
	}
	return buf.String(), nil
}

func (s *Service) String() string {
	return fmt.Sprintf("webhooks:%d, timeout:%v", len(s.destinations), s.timeout)
}

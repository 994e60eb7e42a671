package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"filekeeper/internal/config"
)

const userAgent = "Filekeeper-Go/0.1.0"

// RunSummary carries the counts included in a run-completed notification.
type RunSummary struct {
	Organized  int
	Archived   int
	Duplicates int
	Failed     int
	BytesFreed int64
	Duration   time.Duration
}

// Service defines the notification surface exposed to pipeline components.
type Service interface {
	NotifyRunStarted(ctx context.Context, trigger string, roots int) error
	NotifyRunCompleted(ctx context.Context, trigger string, summary RunSummary) error
	NotifyRunFailed(ctx context.Context, trigger string, runErr error) error
	NotifyDuplicatesFound(ctx context.Context, groups, copies int, reclaimable int64) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:     topic,
		client:       &http.Client{Timeout: timeout},
		runStarted:   cfg.Notifications.RunStarted,
		runCompleted: cfg.Notifications.RunCompleted,
		duplicates:   cfg.Notifications.Duplicates,
		errors:       cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client

	runStarted   bool
	runCompleted bool
	duplicates   bool
	errors       bool
}

func (n *ntfyService) NotifyRunStarted(ctx context.Context, trigger string, roots int) error {
	if !n.runStarted {
		return nil
	}
	trigger = normalizeTrigger(trigger)
	data := payload{
		title:   "Filekeeper - Run Started",
		message: fmt.Sprintf("Started %s run across %d root(s)", trigger, roots),
		tags:    []string{"filekeeper", "run", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRunCompleted(ctx context.Context, trigger string, summary RunSummary) error {
	if !n.runCompleted {
		return nil
	}
	trigger = normalizeTrigger(trigger)
	duration := summary.Duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	durationText := duration.String()
	if duration == 0 {
		durationText = "0s"
	}

	var title, message string
	if summary.Failed == 0 {
		title = "Filekeeper - Run Complete"
		message = fmt.Sprintf("✅ %s run complete: %d organized, %d archived, %d duplicates handled in %s",
			trigger, summary.Organized, summary.Archived, summary.Duplicates, durationText)
	} else {
		title = "Filekeeper - Run Complete (with errors)"
		message = fmt.Sprintf("%s run complete: %d organized, %d archived, %d duplicates handled, %d failed in %s",
			trigger, summary.Organized, summary.Archived, summary.Duplicates, summary.Failed, durationText)
	}
	if summary.BytesFreed > 0 {
		message = fmt.Sprintf("%s\nReclaimed: %s", message, humanize.IBytes(uint64(summary.BytesFreed)))
	}

	data := payload{
		title:   title,
		message: message,
		tags:    []string{"filekeeper", "run", "completed"},
	}
	if summary.Failed > 0 {
		data.priority = "high"
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRunFailed(ctx context.Context, trigger string, runErr error) error {
	if !n.errors {
		return nil
	}
	trigger = normalizeTrigger(trigger)

	var builder strings.Builder
	builder.WriteString("❌ ")
	builder.WriteString(trigger)
	builder.WriteString(" run failed: ")
	if runErr != nil {
		builder.WriteString(strings.TrimSpace(runErr.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Filekeeper - Run Failed",
		message:  builder.String(),
		tags:     []string{"filekeeper", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyDuplicatesFound(ctx context.Context, groups, copies int, reclaimable int64) error {
	if !n.duplicates {
		return nil
	}
	message := fmt.Sprintf("🔄 Found %d duplicate group(s) holding %d redundant copies", groups, copies)
	if reclaimable > 0 {
		message = fmt.Sprintf("%s\nReclaimable: %s", message, humanize.IBytes(uint64(reclaimable)))
	}
	data := payload{
		title:   "Filekeeper - Duplicates Found",
		message: message,
		tags:    []string{"filekeeper", "duplicates", "review"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Filekeeper - Test",
		message:  "🧪 Notification system test",
		tags:     []string{"filekeeper", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func normalizeTrigger(trigger string) string {
	trigger = strings.TrimSpace(trigger)
	if trigger == "" {
		return "manual"
	}
	return trigger
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyRunStarted(context.Context, string, int) error          { return nil }
func (noopService) NotifyRunCompleted(context.Context, string, RunSummary) error { return nil }
func (noopService) NotifyRunFailed(context.Context, string, error) error         { return nil }
func (noopService) NotifyDuplicatesFound(context.Context, int, int, int64) error { return nil }
func (noopService) TestNotification(context.Context) error                       { return nil }

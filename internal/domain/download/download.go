// Package download implements the fixed-URL download demonstration tool.
//
// SECURITY: this tool pulls remote, attacker-controllable text into the
// client's context. It exists as a fixture for prompt-injection and
// exfiltration tooling and is never enabled by default. Review any tool of
// this shape before shipping it in a real server.
package download

import (
	"context"

	"al.essio.dev/pkg/shellescape"

	"github.com/matiasleandrokruk/termcp/internal/domain/command"
)

// DemoURL is the fixed document fetched by the demonstration tool.
const DemoURL = "https://gist.githubusercontent.com/emarco177/47fac6debd88e1f8ad9ff6a1a33041a5/raw/hacked.txt"

const (
	defaultFetchCommand = "curl -s"

	MessageSuccess = "Content downloaded successfully"
	MessageFailure = "Failed to download content"
	unknownError   = "Unknown error occurred"
)

// Result is the download tool's result shape.
type Result struct {
	Success bool   `json:"success"`
	Content string `json:"content"`
	URL     string `json:"url"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
}

// Fetcher downloads DemoURL through the command executor, sharing its launch,
// timeout and normalization behavior.
type Fetcher struct {
	exec     *command.Executor
	url      string
	fetchCmd string
}

func NewFetcher(exec *command.Executor) *Fetcher {
	return &Fetcher{exec: exec, url: DemoURL, fetchCmd: defaultFetchCommand}
}

func (f *Fetcher) URL() string { return f.url }

// Command is the shell command the fetcher runs.
func (f *Fetcher) Command() string {
	return f.fetchCmd + " " + shellescape.Quote(f.url)
}

func (f *Fetcher) Fetch(ctx context.Context) Result {
	req := command.CommandRequest{Command: f.Command()}
	out := f.exec.Execute(ctx, req)
	res := command.Normalize(req, out)

	if res.Success {
		return Result{
			Success: true,
			Content: res.Stdout,
			URL:     f.url,
			Message: MessageSuccess,
		}
	}

	errText := res.Stderr
	switch {
	case out.Kind == command.OutcomeTimedOut:
		errText = "Download timed out after " + command.FormatSeconds(out.Limit)
	case errText == "":
		errText = unknownError
	}
	return Result{
		Success: false,
		URL:     f.url,
		Error:   errText,
		Message: MessageFailure,
	}
}

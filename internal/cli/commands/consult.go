package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/healthhub-dev/healthhub/internal/client"
	"github.com/healthhub-dev/healthhub/internal/consult"
)

// maxErrorBody caps how much of a failed stream response is read
const maxErrorBody = 64 << 10

// NewConsultCmd creates the consult command group
func NewConsultCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consult",
		Short: "Ask the health assistant",
	}

	cmd.AddCommand(
		newQuestionCmd("ask <question>", "Ask a one-off health question",
			func(env *Env) payloadFunc { return env.API.HealthConsult }),
		newQuestionCmd("chat <message>", "Send a message to the health chat",
			func(env *Env) payloadFunc { return env.API.HealthChat }),
		newStreamCmd(),
	)

	var historyParams paramFlags
	history := newDataCmd("history", "Show consultation history", cobra.NoArgs,
		func(ctx context.Context, env *Env, args []string) (json.RawMessage, error) {
			values, err := historyParams.values()
			if err != nil {
				return nil, err
			}
			return env.API.GetConsultHistory(ctx, values)
		})
	addParamFlags(history, &historyParams)

	var clearParams paramFlags
	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete consultation history",
		Args:  cobra.NoArgs,
		RunE: envRunner(func(ctx context.Context, env *Env, args []string) error {
			ok, err := confirm("Delete your consultation history", yes)
			if err != nil || !ok {
				return err
			}
			return runData(ctx, env, args, func(ctx context.Context, env *Env, args []string) (json.RawMessage, error) {
				values, err := clearParams.values()
				if err != nil {
					return nil, err
				}
				return env.API.ClearConsultHistory(ctx, values)
			})
		}),
	}
	addParamFlags(clearCmd, &clearParams)
	addYesFlag(clearCmd, &yes)

	cmd.AddCommand(history, clearCmd)
	return cmd
}

// newQuestionCmd builds ask and chat, which post {question, sessionId} plus
// any extra payload fields
func newQuestionCmd(use, short string, call func(*Env) payloadFunc) *cobra.Command {
	var sessionID string
	var payload payloadFlags

	cmd := newDataCmd(use, short, cobra.ExactArgs(1),
		func(ctx context.Context, env *Env, args []string) (json.RawMessage, error) {
			body, err := questionPayload(args[0], sessionID, &payload)
			if err != nil {
				return nil, err
			}
			return call(env)(ctx, body)
		})
	cmd.Flags().StringVar(&sessionID, "session", "", "Conversation session id")
	addPayloadFlags(cmd, &payload)
	return cmd
}

func questionPayload(question, sessionID string, payload *payloadFlags) (map[string]any, error) {
	if strings.TrimSpace(question) == "" {
		return nil, consult.ErrEmptyQuestion
	}
	body, err := payload.build()
	if err != nil {
		return nil, err
	}
	body["question"] = question
	if sessionID != "" {
		body["sessionId"] = sessionID
	}
	return body, nil
}

func newStreamCmd() *cobra.Command {
	var sessionID string
	var newSession bool

	cmd := &cobra.Command{
		Use:   "stream <question>",
		Short: "Stream an answer as it is generated",
		Args:  cobra.ExactArgs(1),
		RunE: envRunner(func(ctx context.Context, env *Env, args []string) error {
			if newSession {
				sessionID = ulid.Make().String()
			}
			return runConsultStream(ctx, env, args[0], sessionID)
		}),
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Conversation session id")
	cmd.Flags().BoolVar(&newSession, "new-session", false, "Start a new conversation with a generated session id")
	cmd.MarkFlagsMutuallyExclusive("session", "new-session")

	return cmd
}

func runConsultStream(ctx context.Context, env *Env, question, sessionID string) error {
	if sessionID != "" {
		fmt.Fprintf(env.ErrOut, "Session: %s\n", sessionID)
	}

	resp, err := env.Opener.Open(ctx, question, sessionID)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStreamResponse(ctx, env, resp); err != nil {
		return err
	}

	events := consult.NewReader(resp.Body)
	wrote := false
	for events.Next() {
		ev := events.Event()
		if ev.Done() {
			break
		}
		if ev.Event == "error" {
			return fmt.Errorf("stream error: %s", ev.Data)
		}
		chunk := streamText(ev.Data)
		if chunk == "" {
			continue
		}
		fmt.Fprint(env.Out, chunk)
		wrote = true
	}
	if wrote {
		fmt.Fprintln(env.Out)
	}

	if err := events.Err(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("stream interrupted: %w", err)
	}
	return nil
}

// checkStreamResponse turns a response that is not an event stream into an
// error, reusing envelope unwrapping so 40100 still ends the session
func checkStreamResponse(ctx context.Context, env *Env, resp *http.Response) error {
	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if resp.StatusCode >= 200 && resp.StatusCode < 300 && mediaType == "text/event-stream" {
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("failed to read stream response: %w", err)
	}

	_, err = client.Unwrap(resp.StatusCode, body)
	if errors.Is(err, client.ErrSessionExpired) {
		env.Expiry.SessionExpired(ctx)
	}
	if err == nil {
		err = fmt.Errorf("unexpected stream response (status %d, content type %q)", resp.StatusCode, mediaType)
	}
	return err
}

// streamText extracts the printable part of a data payload. JSON objects
// carrying content, delta or text are unpacked; anything else prints as is.
func streamText(data string) string {
	trimmed := strings.TrimSpace(data)
	if !strings.HasPrefix(trimmed, "{") {
		return data
	}

	var chunk map[string]any
	if err := json.Unmarshal([]byte(trimmed), &chunk); err != nil {
		return data
	}
	for _, key := range []string{"content", "delta", "text"} {
		if s, ok := chunk[key].(string); ok {
			return s
		}
	}
	return data
}

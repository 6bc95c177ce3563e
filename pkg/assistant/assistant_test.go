package assistant

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	perrors "github.com/123Haben/parking-place/internal/errors"
	"github.com/123Haben/parking-place/internal/i18n"
)

type echoModel struct {
	system    string
	questions []string
	err       error
}

func (m *echoModel) Reply(ctx context.Context, system, question string) (string, error) {
	m.system = system
	m.questions = append(m.questions, question)
	if m.err != nil {
		return "", m.err
	}
	return "echo " + question, nil
}

var catalog = i18n.MustNew()

func TestChatRunsUntilExitWord(t *testing.T) {
	model := &echoModel{}
	var out strings.Builder
	in := strings.NewReader("Wo ist Platz?\n\nWie voll ist es?\nSTOP\nnot asked\n")

	err := NewChat(model, catalog.Localizer("de"), nil).Run(context.Background(), in, &out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(model.questions) != 2 {
		t.Fatalf("questions = %q", model.questions)
	}
	if model.system != "Du bist ein hilfsbereiter Assistent." {
		t.Errorf("system = %q", model.system)
	}
	got := out.String()
	for _, want := range []string{"Du: ", "KI: echo Wo ist Platz?", "KI: echo Wie voll ist es?"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "not asked") {
		t.Error("loop should stop at the exit word")
	}
}

func TestChatEndsAtEOF(t *testing.T) {
	model := &echoModel{}
	var out strings.Builder
	err := NewChat(model, catalog.Localizer("en"), nil).Run(context.Background(), strings.NewReader("hello"), &out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "AI: echo hello") {
		t.Errorf("output = %q", out.String())
	}
}

func TestChatReportsModelErrorsAndContinues(t *testing.T) {
	model := &echoModel{err: perrors.New(perrors.CodeAssistantFailure).WithDetail("quota")}
	var out strings.Builder
	err := NewChat(model, catalog.Localizer("en"), nil).Run(context.Background(), strings.NewReader("one\ntwo\nquit\n"), &out)
	if err != nil {
		t.Fatal(err)
	}
	if len(model.questions) != 2 {
		t.Errorf("loop should continue after errors, asked %d", len(model.questions))
	}
	if strings.Count(out.String(), "The assistant could not answer:") != 2 {
		t.Errorf("output = %q", out.String())
	}
}

func TestChatStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewChat(&echoModel{}, nil, nil).Run(ctx, strings.NewReader("hi\n"), &strings.Builder{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestChatCancelWhileWaitingForInput(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		errc <- NewChat(&echoModel{}, nil, nil).Run(ctx, pr, io.Discard)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run kept waiting for input after cancel")
	}
}

func TestIsExit(t *testing.T) {
	for _, s := range []string{"exit", "Quit", " STOP "} {
		if !IsExit(s) {
			t.Errorf("IsExit(%q) = false", s)
		}
	}
	for _, s := range []string{"", "exit now", "halt"} {
		if IsExit(s) {
			t.Errorf("IsExit(%q) = true", s)
		}
	}
}

func TestNewGeminiRequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), "", "gemini-2.5-flash")
	if perrors.CodeOf(err) != perrors.CodeAssistantFailure {
		t.Errorf("err = %v, want A001", err)
	}
}
